package testutil

import (
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/google/uuid"
)

// Project options
type ProjectOption func(*domain.Project)

func WithTeamID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.TeamID = id
	}
}

func WithTasks(tasks ...domain.Task) ProjectOption {
	return func(p *domain.Project) {
		p.Tasks = append(p.Tasks, tasks...)
	}
}

func WithSprints(sprints ...domain.Sprint) ProjectOption {
	return func(p *domain.Project) {
		p.Sprints = append(p.Sprints, sprints...)
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: name + " description",
		TeamID:      uuid.New().String(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(pr domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = pr
	}
}

func InSprint(sprintID string) TaskOption {
	return func(t *domain.Task) {
		t.SprintID = &sprintID
	}
}

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) domain.Task {
	t := domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.TaskTodo,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSprintID(id string) SprintOption {
	return func(s *domain.Sprint) {
		s.ID = id
	}
}

func WithDates(start, end time.Time) SprintOption {
	return func(s *domain.Sprint) {
		s.StartDate = start
		s.EndDate = end
	}
}

func NewTestSprint(projectID, name string, opts ...SprintOption) domain.Sprint {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	s := domain.Sprint{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Goal:      "Finish " + name,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 14),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func NewTestTeam(name string, memberIDs ...string) *domain.Team {
	t := &domain.Team{
		ID:          uuid.New().String(),
		Name:        name,
		Description: name + " team",
	}
	for i, id := range memberIDs {
		role := domain.RoleMember
		if i == 0 {
			role = domain.RoleOwner
		}
		t.Members = append(t.Members, domain.TeamMember{UserID: id, Role: role})
	}
	return t
}

func NewTestSprintDraft(name string) domain.SprintDraft {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return domain.SprintDraft{
		Name:      name,
		Goal:      "Finish " + name,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 14),
	}
}
