package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// boardHuhTheme returns a custom huh theme using the formatter palette.
func boardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskFormValues backs the create-task dialog.
type taskFormValues struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
}

func (v *taskFormValues) draft() domain.TaskDraft {
	return domain.TaskDraft{Title: v.Title, Description: v.Description, Priority: v.Priority}
}

func newTaskForm(v *taskFormValues) *huh.Form {
	if v.Priority == "" {
		v.Priority = domain.PriorityMedium
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.Title).
				Validate(validateRequired("title")),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&v.Description),
			huh.NewSelect[domain.TaskPriority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", domain.PriorityLow),
					huh.NewOption("Medium", domain.PriorityMedium),
					huh.NewOption("High", domain.PriorityHigh),
				).
				Value(&v.Priority),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}

// sprintFormValues backs the create-sprint dialog. Dates stay strings until
// the form completes.
type sprintFormValues struct {
	Name  string
	Goal  string
	Start string
	End   string
}

func (v *sprintFormValues) draft() (domain.SprintDraft, error) {
	start, err := parseDate("start date", v.Start)
	if err != nil {
		return domain.SprintDraft{}, err
	}
	end, err := parseDate("end date", v.End)
	if err != nil {
		return domain.SprintDraft{}, err
	}
	return domain.SprintDraft{Name: v.Name, Goal: v.Goal, StartDate: start, EndDate: end}, nil
}

func newSprintForm(v *sprintFormValues, today time.Time) *huh.Form {
	if v.Start == "" {
		v.Start = today.Format(dateLayout)
	}
	if v.End == "" {
		v.End = today.AddDate(0, 0, 14).Format(dateLayout)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sprint name").
				Value(&v.Name).
				Validate(validateRequired("name")),
			huh.NewInput().
				Title("Goal").
				Value(&v.Goal).
				Validate(validateRequired("goal")),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&v.Start).
				Validate(validateDate),
			huh.NewInput().
				Title("End date (YYYY-MM-DD)").
				Value(&v.End).
				Validate(validateDate),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}

// noSprint is the select value that unassigns a task.
const noSprint = ""

func newAssignForm(p *domain.Project, t domain.Task, value *string) *huh.Form {
	options := []huh.Option[string]{huh.NewOption("No sprint", noSprint)}
	for _, sp := range p.Sprints {
		options = append(options, huh.NewOption(sp.Name, sp.ID))
	}
	*value = noSprint
	if t.SprintID != nil {
		*value = *t.SprintID
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Move %q to", t.Title)).
				Options(options...).
				Value(value),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return t, nil
}
