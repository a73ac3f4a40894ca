package board

import (
	"math"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// The functions in this file derive views from an aggregate. They never
// modify p and keep no state between calls.

// Columns partitions a project's tasks by status.
type Columns struct {
	Todo       []domain.Task
	InProgress []domain.Task
	Done       []domain.Task
}

// ByStatus returns the column for s.
func (c Columns) ByStatus(s domain.TaskStatus) []domain.Task {
	switch s {
	case domain.TaskTodo:
		return c.Todo
	case domain.TaskInProgress:
		return c.InProgress
	case domain.TaskDone:
		return c.Done
	}
	return nil
}

// ColumnsByStatus keeps each task's insertion order within its column.
func ColumnsByStatus(p *domain.Project) Columns {
	var c Columns
	if p == nil {
		return c
	}
	for _, t := range p.Tasks {
		switch t.Status {
		case domain.TaskTodo:
			c.Todo = append(c.Todo, t)
		case domain.TaskInProgress:
			c.InProgress = append(c.InProgress, t)
		case domain.TaskDone:
			c.Done = append(c.Done, t)
		}
	}
	return c
}

func TasksForSprint(p *domain.Project, sprintID string) []domain.Task {
	if p == nil {
		return nil
	}
	var out []domain.Task
	for _, t := range p.Tasks {
		if t.InSprint(sprintID) {
			out = append(out, t)
		}
	}
	return out
}

// UnassignedTasks returns tasks with no sprint and tasks whose sprint is no
// longer part of the project.
func UnassignedTasks(p *domain.Project) []domain.Task {
	if p == nil {
		return nil
	}
	var out []domain.Task
	for _, t := range p.Tasks {
		if t.SprintID == nil || !p.HasSprint(*t.SprintID) {
			out = append(out, t)
		}
	}
	return out
}

// SprintProgress is the rounded percentage of the sprint's tasks that are
// done, or 0 for a sprint without tasks.
func SprintProgress(p *domain.Project, sprintID string) int {
	return progress(TasksForSprint(p, sprintID))
}

func progress(tasks []domain.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == domain.TaskDone {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// SprintView is one sprint card: the sprint, its tasks and its progress.
type SprintView struct {
	Sprint   domain.Sprint
	Tasks    []domain.Task
	Progress int
}

// SprintViews returns one view per sprint in insertion order.
func SprintViews(p *domain.Project) []SprintView {
	if p == nil {
		return nil
	}
	views := make([]SprintView, 0, len(p.Sprints))
	for _, sp := range p.Sprints {
		tasks := TasksForSprint(p, sp.ID)
		views = append(views, SprintView{Sprint: sp, Tasks: tasks, Progress: progress(tasks)})
	}
	return views
}

// SprintName returns the name of the task's sprint, or "" when the task is
// unassigned or its reference dangles.
func SprintName(p *domain.Project, t domain.Task) string {
	if p == nil || t.SprintID == nil {
		return ""
	}
	if sp, ok := p.SprintByID(*t.SprintID); ok {
		return sp.Name
	}
	return ""
}
