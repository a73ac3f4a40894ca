package domain

import "time"

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	SprintID    *string // weak reference; may dangle after a sprint is deleted
	CreatedAt   time.Time
}

// Clone copies the task, including a fresh SprintID pointer.
func (t Task) Clone() Task {
	if t.SprintID != nil {
		id := *t.SprintID
		t.SprintID = &id
	}
	return t
}

// InSprint reports whether the task references the given sprint id.
func (t Task) InSprint(sprintID string) bool {
	return t.SprintID != nil && *t.SprintID == sprintID
}

// StringPtr is a small helper for building optional sprint references.
func StringPtr(s string) *string {
	return &s
}
