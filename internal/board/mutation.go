package board

import (
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// MutationKind names a user mutation. It doubles as the second half of the
// in-flight key (entity id, kind).
type MutationKind string

const (
	KindCreateTask         MutationKind = "create_task"
	KindCreateSprint       MutationKind = "create_sprint"
	KindSetTaskStatus      MutationKind = "set_task_status"
	KindAssignTaskToSprint MutationKind = "assign_task_to_sprint"
)

// Mutation is a described change to the aggregate. Applying a mutation
// either succeeds fully or leaves the project untouched.
type Mutation interface {
	Kind() MutationKind
	EntityID() string
	apply(p *domain.Project) error
}

// InsertTask appends a new task.
type InsertTask struct {
	Task domain.Task
}

func (m InsertTask) Kind() MutationKind { return KindCreateTask }
func (m InsertTask) EntityID() string   { return m.Task.ID }

func (m InsertTask) apply(p *domain.Project) error {
	if m.Task.ID == "" {
		return domain.NewValidationError("task", "id is required")
	}
	if p.TaskIndex(m.Task.ID) >= 0 {
		return domain.NewValidationError("task", fmt.Sprintf("%s already exists", m.Task.ID))
	}
	// A dangling SprintID is kept; projections show the task as unassigned.
	p.Tasks = append(p.Tasks, m.Task.Clone())
	return nil
}

// InsertSprint appends a new sprint.
type InsertSprint struct {
	Sprint domain.Sprint
}

func (m InsertSprint) Kind() MutationKind { return KindCreateSprint }
func (m InsertSprint) EntityID() string   { return m.Sprint.ID }

func (m InsertSprint) apply(p *domain.Project) error {
	if m.Sprint.ID == "" {
		return domain.NewValidationError("sprint", "id is required")
	}
	if p.HasSprint(m.Sprint.ID) {
		return domain.NewValidationError("sprint", fmt.Sprintf("%s already exists", m.Sprint.ID))
	}
	p.Sprints = append(p.Sprints, m.Sprint)
	return nil
}

// UpdateTaskStatus moves a task to another status. Any status may follow any
// other.
type UpdateTaskStatus struct {
	TaskID string
	Status domain.TaskStatus
}

func (m UpdateTaskStatus) Kind() MutationKind { return KindSetTaskStatus }
func (m UpdateTaskStatus) EntityID() string   { return m.TaskID }

func (m UpdateTaskStatus) apply(p *domain.Project) error {
	if !m.Status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("%q is not a task status", m.Status))
	}
	t, ok := p.TaskByID(m.TaskID)
	if !ok {
		return domain.NewValidationError("task", fmt.Sprintf("%s not found in project", m.TaskID))
	}
	t.Status = m.Status
	return nil
}

// UpdateTaskSprint sets or clears a task's sprint reference. A nil SprintID
// unassigns.
type UpdateTaskSprint struct {
	TaskID   string
	SprintID *string
}

func (m UpdateTaskSprint) Kind() MutationKind { return KindAssignTaskToSprint }
func (m UpdateTaskSprint) EntityID() string   { return m.TaskID }

func (m UpdateTaskSprint) apply(p *domain.Project) error {
	t, ok := p.TaskByID(m.TaskID)
	if !ok {
		return domain.NewValidationError("task", fmt.Sprintf("%s not found in project", m.TaskID))
	}
	if m.SprintID != nil && !p.HasSprint(*m.SprintID) {
		return domain.NewValidationError("sprint", fmt.Sprintf("%s not found in project", *m.SprintID))
	}
	if m.SprintID == nil {
		t.SprintID = nil
		return nil
	}
	t.SprintID = domain.StringPtr(*m.SprintID)
	return nil
}
