package cli

import (
	"context"
	"fmt"

	"github.com/arborcli/arbor/internal/cli/formatter"
	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/tree"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
		newProjectImportCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{Name: name}
			if desc != "" {
				p.Description = &desc
			}

			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Printf("Created project %s (%s)\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "desc", "", "Project description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projects, err := app.Projects.List(ctx)
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			headers := []string{"ID", "NAME", "PROGRESS", "NODES"}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				x, err := app.Nodes.Snapshot(ctx, p.ID)
				if err != nil {
					return err
				}
				prog := tree.ProjectProgress(x)
				rows = append(rows, []string{
					formatter.TruncID(p.ID),
					p.Name,
					formatter.RenderProgressBar(float64(prog.Percentage), 10),
					fmt.Sprintf("%d", x.Len()),
				})
			}

			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PROJECT",
		Short: "Show project details",
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
			prog := tree.ProjectProgress(x)

			fmt.Print(formatter.RenderBox("Project", renderProjectDetail(p, x, prog)))
			return nil
		},
	}
}

func renderProjectDetail(p *domain.Project, x *tree.Index, prog tree.Progress) string {
	out := fmt.Sprintf("%s\n\n", formatter.Bold(p.Name))
	out += fmt.Sprintf("  %s  %s\n", formatter.Dim("ID      "), formatter.TruncID(p.ID))
	if p.Description != nil {
		out += fmt.Sprintf("  %s  %s\n", formatter.Dim("ABOUT   "), *p.Description)
	}
	out += fmt.Sprintf("  %s  %s\n", formatter.Dim("PROGRESS"), formatter.RenderProgressBar(float64(prog.Percentage), 16))
	out += fmt.Sprintf("  %s  %d nodes, %d roots\n", formatter.Dim("SIZE    "), x.Len(), len(x.Roots()))
	out += fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED "), formatter.HumanTimestamp(p.UpdatedAt))
	return out
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update a project",
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

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("desc") {
				p.Description = &desc
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Printf("Updated project %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "desc", "", "Project description")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Remove a project and all its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, projectID); err != nil {
				return err
			}
			fmt.Printf("Removed project %s\n", projectID)
			return nil
		},
	}
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportProject(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported project %s — %d nodes\n", result.Project.Name, result.NodeCount)
			if result.Repaired > 0 {
				fmt.Printf("Repaired %d unrecognized field value(s) to defaults\n", result.Repaired)
			}
			return nil
		},
	}
}
