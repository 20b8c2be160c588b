package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arborcli/arbor/internal/cli/formatter"
	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/service"
	"github.com/arborcli/arbor/internal/tree"
	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage goal nodes",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeInspectCmd(app),
		newNodeUpdateCmd(app),
		newNodeMoveCmd(app),
		newNodeRemoveCmd(app),
		newNodeStatusCmd(app),
		newNodeCollapseCmd(app),
		newNodeExpandCmd(app),
	)

	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var project, title, parent, desc, notes, priority, due string
	var hours float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a goal node",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			// No title on an interactive terminal: collect the node
			// through a form instead of failing.
			if title == "" {
				if !app.interactive() {
					return fmt.Errorf("--title is required")
				}
				var hoursStr string
				form := newAddNodeForm(&title, &priority, &due, &hoursStr)
				if err := form.Run(); err != nil {
					return err
				}
				if hoursStr != "" {
					h, err := strconv.ParseFloat(hoursStr, 64)
					if err != nil {
						return fmt.Errorf("invalid hours %q: %w", hoursStr, err)
					}
					hours = h
				}
			}

			n := &domain.GoalNode{
				ProjectID: projectID,
				Title:     title,
				Status:    domain.StatusOpen,
				Priority:  domain.ParsePriority(priority),
			}
			if parent != "" {
				parentID, err := resolveNodeID(ctx, app, parent, projectID)
				if err != nil {
					return err
				}
				n.ParentID = &parentID
			}
			if desc != "" {
				n.Description = &desc
			}
			if notes != "" {
				n.Notes = &notes
			}
			if hours > 0 {
				n.EstimatedHours = &hours
			}
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				n.DueDate = &d
			}

			if err := app.Nodes.Create(ctx, n); err != nil {
				return err
			}

			fmt.Printf("Created node %s (%s)\n", n.Title, n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&title, "title", "", "Node title")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent node (title or ID)")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high|critical)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newNodeInspectCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "inspect NODE",
		Short: "Show node details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID := ""
			if projectFlag != "" {
				var err error
				projectID, err = resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
			}
			nodeID, err := resolveNodeID(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}
			n, err := app.Nodes.GetByID(ctx, nodeID)
			if err != nil {
				return err
			}
			x, err := app.Nodes.Snapshot(ctx, n.ProjectID)
			if err != nil {
				return err
			}

			out := fmt.Sprintf("%s  %s\n\n", formatter.Bold(n.Title), formatter.StatusPill(n.Status))
			out += fmt.Sprintf("  %s  %s\n", formatter.Dim("ID      "), formatter.TruncID(n.ID))
			out += fmt.Sprintf("  %s  %s\n", formatter.Dim("PRIORITY"), formatter.PriorityBadge(n.Priority))
			if n.ParentID != nil {
				out += fmt.Sprintf("  %s  %s\n", formatter.Dim("PARENT  "), formatter.TruncID(*n.ParentID))
			}
			if n.Description != nil {
				out += fmt.Sprintf("  %s  %s\n", formatter.Dim("ABOUT   "), *n.Description)
			}
			if n.DueDate != nil {
				out += fmt.Sprintf("  %s  %s %s\n", formatter.Dim("DUE     "),
					formatter.RelativeDateStyled(*n.DueDate),
					formatter.Dim("("+n.DueDate.Format("Jan 2, 2006")+")"))
			}
			if n.EstimatedHours != nil {
				out += fmt.Sprintf("  %s  %s\n", formatter.Dim("ESTIMATE"), formatter.FormatHours(*n.EstimatedHours))
			}
			if n.CompletedAt != nil {
				out += fmt.Sprintf("  %s  %s\n", formatter.Dim("DONE AT "), formatter.HumanDate(*n.CompletedAt))
			}
			if !x.IsLeaf(n.ID) {
				prog := tree.NodeProgress(x, n.ID)
				out += fmt.Sprintf("  %s  %s\n", formatter.Dim("PROGRESS"), formatter.RenderProgressBar(float64(prog.Percentage), 16))
			}
			out += fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED "), formatter.HumanTimestamp(n.UpdatedAt))

			if children := x.Children(n.ID); len(children) > 0 {
				out += "\n" + formatter.Header("Children") + "\n"
				headers := []string{"ID", "TITLE", "STATUS", "ORDER"}
				rows := make([][]string, 0, len(children))
				for _, c := range children {
					rows = append(rows, []string{
						formatter.TruncID(c.ID),
						c.Title,
						formatter.StatusPill(c.Status),
						strconv.Itoa(c.OrderIndex),
					})
				}
				out += formatter.RenderTable(headers, rows)
			}

			fmt.Print(formatter.RenderBox("Goal Node", out))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project scope for title lookups")
	return cmd
}

func newNodeUpdateCmd(app *App) *cobra.Command {
	var projectFlag, title, desc, notes, priority, due string
	var hours float64
	var clearDue, clearHours, clearDesc, clearNotes bool

	cmd := &cobra.Command{
		Use:   "update NODE",
		Short: "Update a goal node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID := ""
			if projectFlag != "" {
				var err error
				projectID, err = resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
			}
			nodeID, err := resolveNodeID(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}

			patch := service.NodePatch{
				ClearDescription:    clearDesc,
				ClearNotes:          clearNotes,
				ClearEstimatedHours: clearHours,
				ClearDueDate:        clearDue,
			}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			if cmd.Flags().Changed("priority") {
				p := domain.ParsePriority(priority)
				patch.Priority = &p
			}
			if cmd.Flags().Changed("hours") {
				patch.EstimatedHours = &hours
			}
			if cmd.Flags().Changed("due") {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				patch.DueDate = &d
			}

			n, err := app.Nodes.UpdateFields(ctx, nodeID, patch)
			if err != nil {
				return err
			}

			fmt.Printf("Updated node %s\n", n.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project scope for title lookups")
	cmd.Flags().StringVar(&title, "title", "", "Node title")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high|critical)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().BoolVar(&clearHours, "clear-hours", false, "Remove the estimate")
	cmd.Flags().BoolVar(&clearDesc, "clear-desc", false, "Remove the description")
	cmd.Flags().BoolVar(&clearNotes, "clear-notes", false, "Remove the notes")

	return cmd
}

func newNodeMoveCmd(app *App) *cobra.Command {
	var projectFlag, parent string
	var toRoot bool

	cmd := &cobra.Command{
		Use:   "move NODE",
		Short: "Reparent a goal node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID := ""
			if projectFlag != "" {
				var err error
				projectID, err = resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
			}
			nodeID, err := resolveNodeID(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}

			var newParent *string
			if !toRoot {
				if parent == "" {
					return fmt.Errorf("either --parent or --root is required")
				}
				if projectID == "" {
					n, err := app.Nodes.GetByID(ctx, nodeID)
					if err != nil {
						return err
					}
					projectID = n.ProjectID
				}
				parentID, err := resolveNodeID(ctx, app, parent, projectID)
				if err != nil {
					return err
				}
				newParent = &parentID
			}

			if err := app.Nodes.Move(ctx, nodeID, newParent); err != nil {
				return err
			}

			fmt.Printf("Moved node %s\n", nodeID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project scope for title lookups")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent node (title or ID)")
	cmd.Flags().BoolVar(&toRoot, "root", false, "Make the node a root")

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "remove NODE",
		Short: "Remove a goal node and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID := ""
			if projectFlag != "" {
				var err error
				projectID, err = resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
			}
			nodeID, err := resolveNodeID(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}
			if err := app.Nodes.Delete(ctx, nodeID); err != nil {
				return err
			}
			fmt.Printf("Removed node %s\n", nodeID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project scope for title lookups")
	return cmd
}

func newNodeStatusCmd(app *App) *cobra.Command {
	var projectFlag string
	var noPropagate bool

	cmd := &cobra.Command{
		Use:   "status NODE STATUS",
		Short: "Set a node's status (open|in_progress|completed|blocked)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID := ""
			if projectFlag != "" {
				var err error
				projectID, err = resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
			}
			nodeID, err := resolveNodeID(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}

			if !domain.ValidNodeStatuses[args[1]] {
				return fmt.Errorf("invalid status %q", args[1])
			}
			status := domain.NodeStatus(args[1])

			cascaded, err := app.Nodes.SetStatus(ctx, nodeID, status, !noPropagate)
			if err != nil {
				return err
			}

			fmt.Printf("Set node %s to %s\n", nodeID, status)
			for _, id := range cascaded {
				n, err := app.Nodes.GetByID(ctx, id)
				if err != nil {
					continue
				}
				fmt.Printf("  also completed %s\n", n.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project scope for title lookups")
	cmd.Flags().BoolVar(&noPropagate, "no-propagate", false, "Do not auto-complete finished ancestors")

	return cmd
}

func newNodeCollapseCmd(app *App) *cobra.Command {
	return newCollapseToggleCmd(app, "collapse", "Collapsed", "Collapse a node's subtree in views", true)
}

func newNodeExpandCmd(app *App) *cobra.Command {
	return newCollapseToggleCmd(app, "expand", "Expanded", "Expand a collapsed node", false)
}

func newCollapseToggleCmd(app *App, verb, past, short string, collapsed bool) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   verb + " NODE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID := ""
			if projectFlag != "" {
				var err error
				projectID, err = resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
			}
			nodeID, err := resolveNodeID(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}
			if err := app.Nodes.SetCollapsed(ctx, nodeID, collapsed); err != nil {
				return err
			}
			fmt.Printf("%s node %s\n", past, nodeID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project scope for title lookups")
	return cmd
}
