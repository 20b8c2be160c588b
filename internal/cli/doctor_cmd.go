package cli

import (
	"context"
	"fmt"

	"github.com/arborcli/arbor/internal/cli/formatter"
	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/tree"
	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "doctor PROJECT",
		Short: "Find and repair broken parent links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if dryRun {
				nodes, err := app.Nodes.ListByProject(ctx, projectID)
				if err != nil {
					return err
				}
				broken := tree.InvalidParents(nodes)
				if len(broken) == 0 {
					fmt.Println("No broken parent links found.")
					return nil
				}
				byID := make(map[string]*domain.GoalNode, len(nodes))
				for _, n := range nodes {
					byID[n.ID] = n
				}
				fmt.Printf("%d node(s) with broken parent links:\n", len(broken))
				for _, id := range broken {
					if n := byID[id]; n != nil {
						fmt.Printf("  %s %s\n", formatter.TruncID(id), n.Title)
					}
				}
				fmt.Println("Run without --dry-run to repair (affected nodes become roots).")
				return nil
			}

			repaired, err := app.Nodes.Repair(ctx, projectID)
			if err != nil {
				return err
			}
			if repaired == 0 {
				fmt.Println("No broken parent links found.")
				return nil
			}
			fmt.Printf("Repaired %d broken parent link(s).\n", repaired)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report problems without fixing them")
	return cmd
}
