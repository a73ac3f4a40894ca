package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/board"
	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "board PROJECT",
		Short: "Open a project board",
		Long: "Open a project board. In a terminal this starts the interactive board;\n" +
			"otherwise, or with --plain, it prints the columns and the task list.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain || !app.interactive() {
				st, err := app.Status.GetStatus(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, formatter.FormatBoard(st.Project))
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.FormatTaskTable(st.Project))
				return nil
			}
			return runBoardTUI(cmd.Context(), app, args[0])
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the board instead of opening it")
	return cmd
}

func runBoardTUI(ctx context.Context, app *App, projectID string) error {
	bridge := newEventBridge()
	d, err := app.Boards.Open(ctx, projectID, board.WithNotifier(bridge))
	if err != nil {
		return err
	}
	defer d.Store().Discard()
	d.Store().OnChange(bridge.changed)

	p := tea.NewProgram(newBoardModel(ctx, d, bridge), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// openBoard loads a project for a one-shot edit command.
func openBoard(cmd *cobra.Command, app *App, projectID string) (*board.Dispatcher, error) {
	return app.Boards.Open(cmd.Context(), projectID, board.WithNotifier(lineNotifier{w: cmd.OutOrStdout()}))
}
