package repository

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

type TeamRepo interface {
	Create(ctx context.Context, t *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	AddMember(ctx context.Context, teamID string, m domain.TeamMember) error
	ListIDsByUser(ctx context.Context, userID string) ([]string, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.ProjectSummary, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.ProjectSummary, error)
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Sprint, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	SetSprint(ctx context.Context, id string, sprintID *string) error
}
