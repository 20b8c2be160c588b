package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arborcli/arbor/internal/export"
	"github.com/arborcli/arbor/internal/layout"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var format, out string
	var expandAll bool

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Export a project as JSON or an SVG chart",
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

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "json":
				if err := export.WriteJSON(w, p, x); err != nil {
					return err
				}
			case "svg":
				collapsed := make(map[string]bool)
				if !expandAll {
					for _, n := range collapsedNodes(ctx, app, projectID) {
						collapsed[n] = true
					}
				}
				res := layout.Compute(x, collapsed, app.Layout)
				if err := export.WriteSVG(w, x, res, app.Layout); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (expected json or svg)", format)
			}

			if out != "" {
				fmt.Printf("Exported project %s to %s\n", p.Name, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|svg)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Ignore collapsed state in SVG output")

	return cmd
}

func collapsedNodes(ctx context.Context, app *App, projectID string) []string {
	nodes, err := app.Nodes.ListByProject(ctx, projectID)
	if err != nil {
		return nil
	}
	var ids []string
	for _, n := range nodes {
		if n.IsCollapsed {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
