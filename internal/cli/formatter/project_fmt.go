package formatter

import (
	"strings"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// FormatProjectList renders a team's projects inside a bordered box.
func FormatProjectList(teamName string, projects []domain.ProjectSummary) string {
	if len(projects) == 0 {
		return RenderBox("Projects", Dim("No projects yet"))
	}

	headers := []string{"ID", "NAME", "DESCRIPTION", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		created := Dim("--")
		if !p.CreatedAt.IsZero() {
			created = p.CreatedAt.Format("Jan 2, 2006")
		}
		desc := strings.TrimSpace(p.Description)
		if desc == "" {
			desc = Dim("--")
		}
		rows = append(rows, []string{p.ID, Bold(p.Name), desc, created})
	}

	title := "Projects"
	if teamName != "" {
		title += " · " + teamName
	}
	return RenderBox(title, RenderTable(headers, rows))
}
