package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/spf13/cobra"
)

func newSprintCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Create and review sprints",
	}

	cmd.AddCommand(
		newSprintAddCmd(app),
		newSprintListCmd(app),
	)

	return cmd
}

func newSprintAddCmd(app *App) *cobra.Command {
	var name, goal, start, end string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Create a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate := time.Now().UTC().Truncate(24 * time.Hour)
			if start != "" {
				var err error
				if startDate, err = parseDate("start date", start); err != nil {
					return err
				}
			}
			endDate := startDate.AddDate(0, 0, 14)
			if end != "" {
				var err error
				if endDate, err = parseDate("end date", end); err != nil {
					return err
				}
			}

			d, err := openBoard(cmd, app, args[0])
			if err != nil {
				return err
			}
			sp, err := d.CreateSprint(cmd.Context(), domain.SprintDraft{
				Name:      name,
				Goal:      goal,
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", formatter.Dim("id"), sp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Sprint name")
	cmd.Flags().StringVar(&goal, "goal", "", "Sprint goal")
	cmd.Flags().StringVar(&start, "start", "", "Start date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date YYYY-MM-DD (default start + 14 days)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newSprintListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "Show sprint progress and the unassigned backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Status.GetStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSprints(st.Project, time.Now()))
			return nil
		},
	}
}
