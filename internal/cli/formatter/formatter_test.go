package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/roster"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   int
		width int
		want  string
	}{
		{"empty", 0, 4, "[░░░░]   0%"},
		{"half", 50, 10, "[█████░░░░░]  50%"},
		{"full", 100, 4, "[████] 100%"},
		{"over clamps", 140, 4, "[████] 100%"},
		{"negative clamps", -3, 4, "[░░░░]   0%"},
		{"tiny width clamps to 2", 50, 1, "[█░]  50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderProgress(tt.pct, tt.width))
		})
	}
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", RelativeDateFrom(now, now))
	assert.Equal(t, "Tomorrow", RelativeDateFrom(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "Yesterday", RelativeDateFrom(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "In 5d", RelativeDateFrom(now.AddDate(0, 0, 5), now))
	assert.Equal(t, "3d ago", RelativeDateFrom(now.AddDate(0, 0, -3), now))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcdef12", ShortID("abcdef12-3456"))
	assert.Equal(t, "abc", ShortID("abc"))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"ID", "NAME"}, [][]string{{"p1", "Apollo"}, {"p2", "Gemini"}})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "Gemini")
	assert.Less(t, strings.Index(out, "Apollo"), strings.Index(out, "Gemini"))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatBoard_GroupsByStatus(t *testing.T) {
	p := testutil.NewTestProject("Apollo")
	p.Tasks = []domain.Task{
		testutil.NewTestTask(p.ID, "Plan", testutil.WithStatus(domain.TaskTodo)),
		testutil.NewTestTask(p.ID, "Build", testutil.WithStatus(domain.TaskInProgress)),
		testutil.NewTestTask(p.ID, "Ship", testutil.WithStatus(domain.TaskDone)),
	}

	out := FormatBoard(p)
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "TO DO (1)")
	assert.Contains(t, out, "IN PROGRESS (1)")
	assert.Contains(t, out, "COMPLETED (1)")
	for _, title := range []string{"Plan", "Build", "Ship"} {
		assert.Contains(t, out, title)
	}
}

func TestFormatBoard_NilProject(t *testing.T) {
	assert.Contains(t, FormatBoard(nil), "No project loaded")
}

func TestFormatSprints(t *testing.T) {
	p := testutil.NewTestProject("Apollo")
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	sp := testutil.NewTestSprint(p.ID, "Sprint 1", testutil.WithDates(start, start.AddDate(0, 0, 14)))
	p.Sprints = []domain.Sprint{sp}
	p.Tasks = []domain.Task{
		testutil.NewTestTask(p.ID, "Done thing", testutil.InSprint(sp.ID), testutil.WithStatus(domain.TaskDone)),
		testutil.NewTestTask(p.ID, "Open thing", testutil.InSprint(sp.ID)),
		testutil.NewTestTask(p.ID, "Loose thing"),
		testutil.NewTestTask(p.ID, "Orphan", testutil.InSprint("gone")),
	}

	out := FormatSprints(p, start.AddDate(0, 0, 3))
	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "Jan 5 – Jan 19, 2026")
	assert.Contains(t, out, "Finish Sprint 1")
	assert.Contains(t, out, " 50%")

	unassigned := out[strings.Index(out, "UNASSIGNED"):]
	assert.Contains(t, unassigned, "Loose thing")
	assert.Contains(t, unassigned, "Orphan")
	assert.NotContains(t, unassigned, "Open thing")
}

func TestFormatSprints_Empty(t *testing.T) {
	out := FormatSprints(testutil.NewTestProject("Apollo"), time.Now())
	assert.Contains(t, out, "No sprints yet")
	assert.Contains(t, out, "Nothing in the backlog")
}

func TestFormatTaskTable_ShowsSprintName(t *testing.T) {
	p := testutil.NewTestProject("Apollo")
	sp := testutil.NewTestSprint(p.ID, "Sprint 7")
	p.Sprints = []domain.Sprint{sp}
	p.Tasks = []domain.Task{
		testutil.NewTestTask(p.ID, "Assigned", testutil.InSprint(sp.ID), testutil.WithTaskID("task-a")),
		testutil.NewTestTask(p.ID, "Free", testutil.WithTaskID("task-b")),
	}

	out := FormatTaskTable(p)
	assert.Contains(t, out, "task-a")
	assert.Contains(t, out, "Sprint 7")
	assert.Contains(t, out, "--")
}

func TestFormatProjectList(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	out := FormatProjectList("Core", []domain.ProjectSummary{
		{ID: "p1", Name: "Apollo", Description: "Moon", CreatedAt: created},
		{ID: "p2", Name: "Gemini"},
	})
	assert.Contains(t, out, "PROJECTS · CORE")
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "Feb 1, 2026")
	assert.Contains(t, out, "Gemini")

	assert.Contains(t, FormatProjectList("", nil), "No projects yet")
}

func TestFormatDashboard(t *testing.T) {
	team := testutil.NewTestTeam("Core", "u1", "u2")
	r := roster.Roster{
		User:     &domain.User{ID: "u1", DisplayName: "Ada"},
		Teams:    []domain.Team{*team},
		Warnings: []roster.Warning{{TeamID: "t-gone", Err: errors.New("not found")}},
	}

	out := FormatDashboard(r)
	assert.Contains(t, out, "Signed in as Ada")
	assert.Contains(t, out, "Core")
	assert.Contains(t, out, "team t-gone skipped: not found")
}

func TestFormatDashboard_NoTeams(t *testing.T) {
	out := FormatDashboard(roster.Roster{User: &domain.User{Email: "ada@example.com"}})
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "not a member of any team")
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, StatusPill(domain.TaskTodo), "To Do")
	assert.Contains(t, StatusPill(domain.TaskDone), "Completed")
	assert.Contains(t, PriorityBadge(domain.PriorityHigh), "HIGH")
	assert.Contains(t, PriorityBadge(""), "--")
}
