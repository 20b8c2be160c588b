package cli

import (
	"context"
	"fmt"

	"github.com/arborcli/arbor/internal/cli/formatter"
	"github.com/arborcli/arbor/internal/tree"
	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "tree PROJECT",
		Short: "Show a project's goal tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			x, err := app.Nodes.Snapshot(ctx, projectID)
			if err != nil {
				return err
			}

			if x.Len() == 0 {
				fmt.Println("No nodes in this project.")
				return nil
			}

			prog := tree.ProjectProgress(x)
			fmt.Printf("%s  %s\n\n", formatter.Bold(p.Name), formatter.RenderProgressBar(float64(prog.Percentage), 12))
			fmt.Print(formatter.RenderTree(buildTreeItems(x, showAll)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Show subtrees of collapsed nodes")
	return cmd
}

// buildTreeItems flattens the forest into display rows. Collapsed
// nodes keep their row but their subtree is skipped unless showAll is
// set; non-leaf rows carry a leaf-progress badge.
func buildTreeItems(x *tree.Index, showAll bool) []formatter.TreeItem {
	var items []formatter.TreeItem

	var walk func(views []*tree.NodeView, level int)
	walk = func(views []*tree.NodeView, level int) {
		for i, v := range views {
			n := v.Node
			collapsed := n.IsCollapsed && !showAll && len(v.Children) > 0

			item := formatter.TreeItem{
				Title:     n.Title,
				Level:     level,
				IsLast:    i == len(views)-1,
				Status:    n.Status,
				Collapsed: collapsed,
			}
			if collapsed {
				item.HiddenCount = len(x.Descendants(n.ID))
			}
			if !x.IsLeaf(n.ID) {
				item.Badge = formatter.ProgressBadge(tree.NodeProgress(x, n.ID))
			}
			items = append(items, item)

			if !collapsed {
				walk(v.Children, level+1)
			}
		}
	}
	walk(x.Nested(), 0)

	return items
}
