package cli

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/service"
	"github.com/spf13/cobra"
)

// LocalSeeder creates the records the remote service owns. Only the SQLite
// backend offers it.
type LocalSeeder interface {
	CreateTeam(ctx context.Context, name, description string) (*domain.Team, error)
	AddMember(ctx context.Context, teamID, userID string) error
	CreateProject(ctx context.Context, teamID, name, description string) (*domain.ProjectSummary, error)
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Boards    service.BoardService
	Projects  service.ProjectService
	Dashboard service.DashboardService
	Status    service.StatusService

	// Local is nil unless the SQLite backend is selected.
	Local LocalSeeder

	// IsInteractive reports whether stdout is a terminal. Nil means false.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "sprintboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sprintboard",
		Short:         "Team project boards and sprints from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDashboardCmd(app),
		newProjectsCmd(app),
		newBoardCmd(app),
		newTaskCmd(app),
		newSprintCmd(app),
		newLocalCmd(app),
	)

	return root
}
