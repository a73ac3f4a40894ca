package cli

import (
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "List the teams you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Loading teams…")
			}

			load := app.Dashboard.Load
			if refresh {
				load = app.Dashboard.Refresh
			}
			r, err := load(cmd.Context())
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDashboard(r))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached teams")
	return cmd
}

func newProjectsCmd(app *App) *cobra.Command {
	var teamID string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List a team's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.ListByTeam(cmd.Context(), teamID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(teamID, projects))
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Team ID")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}
