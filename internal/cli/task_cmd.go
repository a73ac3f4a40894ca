package cli

import (
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create and move tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskStatusCmd(app),
		newTaskAssignCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var title, desc string
	priority := priorityFlag(domain.PriorityMedium)

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openBoard(cmd, app, args[0])
			if err != nil {
				return err
			}

			task, err := d.CreateTask(cmd.Context(), domain.TaskDraft{Title: title, Description: desc, Priority: domain.TaskPriority(priority)})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", formatter.Dim("id"), task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&desc, "desc", "", "Task description")
	cmd.Flags().Var(&priority, "priority", "LOW, MEDIUM or HIGH")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's tasks with full IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Status.GetStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskTable(st.Project))
			return nil
		},
	}
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status PROJECT TASK STATUS",
		Short: "Move a task to another column",
		Long:  "Move a task to another column. TASK may be a unique ID prefix; STATUS is TODO, IN_PROGRESS or DONE.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatus(args[2])
			if err != nil {
				return err
			}
			d, err := openBoard(cmd, app, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(d.Store().Project(), args[1])
			if err != nil {
				return err
			}
			return d.SetTaskStatus(cmd.Context(), taskID, status)
		},
	}
}

func newTaskAssignCmd(app *App) *cobra.Command {
	var sprint string
	var none bool

	cmd := &cobra.Command{
		Use:   "assign PROJECT TASK",
		Short: "Move a task into a sprint, or out of it with --none",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openBoard(cmd, app, args[0])
			if err != nil {
				return err
			}
			p := d.Store().Project()
			taskID, err := resolveTaskID(p, args[1])
			if err != nil {
				return err
			}

			var sprintID *string
			if !none {
				id, err := resolveSprintID(p, sprint)
				if err != nil {
					return err
				}
				sprintID = &id
			}
			return d.AssignTaskToSprint(cmd.Context(), taskID, sprintID)
		},
	}

	cmd.Flags().StringVar(&sprint, "sprint", "", "Sprint ID or unique prefix")
	cmd.Flags().BoolVar(&none, "none", false, "Remove the task from its sprint")
	cmd.MarkFlagsMutuallyExclusive("sprint", "none")
	cmd.MarkFlagsOneRequired("sprint", "none")
	return cmd
}
