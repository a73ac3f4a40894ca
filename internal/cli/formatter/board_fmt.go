package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/board"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	columnWidth         = 32
	sprintProgressWidth = 16
)

// FormatBoard renders the three status columns side by side.
func FormatBoard(p *domain.Project) string {
	if p == nil {
		return Dim("No project loaded")
	}
	cols := board.ColumnsByStatus(p)

	panels := make([]string, 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		panels = append(panels, RenderColumn(p, s, cols.ByStatus(s), columnWidth, ""))
	}

	title := Bold(p.Name)
	if p.Description != "" {
		title += "  " + Dim(p.Description)
	}
	return title + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// RenderColumn draws one status column. The task whose id equals selected
// is highlighted.
func RenderColumn(p *domain.Project, s domain.TaskStatus, tasks []domain.Task, width int, selected string) string {
	var b strings.Builder
	b.WriteString(StatusColor(s).Bold(true).Render(strings.ToUpper(s.Label())))
	b.WriteString(Dim(fmt.Sprintf(" (%d)", len(tasks))))
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(Dim("No tasks"))
	}
	for i, t := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTaskCard(p, t, t.ID == selected))
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StatusColor(s).GetForeground()).
		Padding(0, 1).
		Render(b.String())
}

// FormatTaskCard renders a task as two short lines: title, then id,
// priority and sprint.
func FormatTaskCard(p *domain.Project, t domain.Task, selected bool) string {
	title := StyleFg.Render(t.Title)
	if selected {
		title = StyleHeader.Render("› " + t.Title)
	}
	meta := []string{TruncID(t.ID), PriorityBadge(t.Priority)}
	if name := board.SprintName(p, t); name != "" {
		meta = append(meta, StylePurple.Render(name))
	}
	return title + "\n" + strings.Join(meta, " ")
}

// FormatSprints renders every sprint with its progress and tasks, followed
// by the unassigned backlog.
func FormatSprints(p *domain.Project, now time.Time) string {
	if p == nil {
		return Dim("No project loaded")
	}
	var b strings.Builder

	views := board.SprintViews(p)
	if len(views) == 0 {
		b.WriteString(Dim("No sprints yet") + "\n")
	}
	for _, v := range views {
		b.WriteString(Bold(v.Sprint.Name) + "  " + TruncID(v.Sprint.ID) + "\n")
		b.WriteString("  " + SprintWindow(v.Sprint.StartDate, v.Sprint.EndDate, now) + "\n")
		if v.Sprint.Goal != "" {
			b.WriteString("  " + Dim(v.Sprint.Goal) + "\n")
		}
		b.WriteString("  " + RenderProgress(v.Progress, sprintProgressWidth) + "\n")
		for _, t := range v.Tasks {
			b.WriteString("    " + formatTaskLine(t) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(Header("Unassigned") + "\n")
	unassigned := board.UnassignedTasks(p)
	if len(unassigned) == 0 {
		b.WriteString(Dim("Nothing in the backlog") + "\n")
	}
	for _, t := range unassigned {
		b.WriteString("  " + formatTaskLine(t) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTaskLine(t domain.Task) string {
	return fmt.Sprintf("%s %s %s %s", TruncID(t.ID), StatusPill(t.Status), StyleFg.Render(t.Title), PriorityBadge(t.Priority))
}

// FormatTaskTable lists tasks with their full ids, for scripting.
func FormatTaskTable(p *domain.Project) string {
	headers := []string{"ID", "TITLE", "STATUS", "PRIORITY", "SPRINT"}
	rows := make([][]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		sprint := board.SprintName(p, t)
		if sprint == "" {
			sprint = "--"
		}
		rows = append(rows, []string{t.ID, t.Title, StatusPill(t.Status), PriorityBadge(t.Priority), sprint})
	}
	return RenderTable(headers, rows)
}
