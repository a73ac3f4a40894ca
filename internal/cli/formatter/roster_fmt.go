package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/roster"
)

// FormatDashboard renders the user's teams. Skipped teams are listed dim at
// the bottom.
func FormatDashboard(r roster.Roster) string {
	var b strings.Builder

	if r.User != nil {
		name := r.User.DisplayName
		if name == "" {
			name = r.User.Email
		}
		b.WriteString("Signed in as " + Bold(name) + "\n\n")
	}

	if len(r.Teams) == 0 {
		b.WriteString(Dim("You are not a member of any team yet") + "\n")
	} else {
		headers := []string{"ID", "TEAM", "MEMBERS", "DESCRIPTION"}
		rows := make([][]string, 0, len(r.Teams))
		for _, t := range r.Teams {
			rows = append(rows, []string{t.ID, Bold(t.Name), fmt.Sprintf("%d", len(t.Members)), t.Description})
		}
		b.WriteString(RenderTable(headers, rows))
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range r.Warnings {
			b.WriteString(Dim("  "+w.String()) + "\n")
		}
	}

	return RenderBox("Teams", strings.TrimRight(b.String(), "\n"))
}
