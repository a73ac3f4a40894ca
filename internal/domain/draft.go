package domain

import (
	"strings"
	"time"
)

// TaskDraft is the user input for a new task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    TaskPriority
}

// Normalize trims the title and defaults an empty priority to MEDIUM.
func (d TaskDraft) Normalize() TaskDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	return d
}

func (d TaskDraft) Validate() error {
	d = d.Normalize()
	if d.Title == "" {
		return NewValidationError("title", "is required")
	}
	if !d.Priority.Valid() {
		return NewValidationError("priority", "must be one of LOW, MEDIUM, HIGH")
	}
	return nil
}

// SprintDraft is the user input for a new sprint.
type SprintDraft struct {
	Name      string
	Goal      string
	StartDate time.Time
	EndDate   time.Time
}

func (d SprintDraft) Normalize() SprintDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Goal = strings.TrimSpace(d.Goal)
	return d
}

func (d SprintDraft) Validate() error {
	d = d.Normalize()
	if d.Name == "" {
		return NewValidationError("name", "is required")
	}
	if d.Goal == "" {
		return NewValidationError("goal", "is required")
	}
	if d.StartDate.IsZero() {
		return NewValidationError("start date", "is required")
	}
	if d.EndDate.IsZero() {
		return NewValidationError("end date", "is required")
	}
	if d.EndDate.Before(d.StartDate) {
		return NewValidationError("end date", "must not be before start date")
	}
	return nil
}
