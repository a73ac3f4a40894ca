package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var errNoLocalBackend = errors.New("local commands need the SQLite backend (set SPRINTBOARD_DB)")

func newLocalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Seed teams and projects in the local database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Local == nil {
				return errNoLocalBackend
			}
			return nil
		},
	}

	team := &cobra.Command{Use: "team", Short: "Manage local teams"}
	team.AddCommand(newLocalTeamAddCmd(app))

	member := &cobra.Command{Use: "member", Short: "Manage team members"}
	member.AddCommand(newLocalMemberAddCmd(app))

	project := &cobra.Command{Use: "project", Short: "Manage local projects"}
	project.AddCommand(newLocalProjectAddCmd(app))

	cmd.AddCommand(team, member, project)
	return cmd
}

func newLocalTeamAddCmd(app *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a team owned by the local user",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Local.CreateTeam(cmd.Context(), name, desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %s %s\n", formatter.Bold(t.Name), formatter.Dim(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Team name")
	cmd.Flags().StringVar(&desc, "desc", "", "Team description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLocalMemberAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEAM USER",
		Short: "Add a user to a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Local.AddMember(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to team %s\n", args[1], args[0])
			return nil
		},
	}
}

func newLocalProjectAddCmd(app *App) *cobra.Command {
	var name, desc string

	cmd := &cobra.Command{
		Use:   "add TEAM",
		Short: "Create a project in a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Local.CreateProject(cmd.Context(), args[0], name, desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", formatter.Bold(p.Name), formatter.Dim(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "desc", "", "Project description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
