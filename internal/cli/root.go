package cli

import (
	"github.com/arborcli/arbor/internal/layout"
	"github.com/arborcli/arbor/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Nodes    service.NodeService
	Import   service.ImportService

	// Layout is the tuning used by chart export and the browser.
	Layout layout.Config

	// IsInteractive reports whether stdin is a terminal; interactive
	// commands fall back to flags when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "arbor" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "arbor",
		Short: "Hierarchical goal tracker",
	}

	root.AddCommand(
		newProjectCmd(app),
		newNodeCmd(app),
		newTreeCmd(app),
		newDoctorCmd(app),
		newExportCmd(app),
		newBrowseCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
