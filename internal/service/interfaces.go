package service

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/board"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/roster"
)

// BoardService opens a project for editing. The returned dispatcher owns
// the loaded aggregate until the caller discards its store.
type BoardService interface {
	Open(ctx context.Context, projectID string, opts ...board.Option) (*board.Dispatcher, error)
}

type ProjectService interface {
	ListByTeam(ctx context.Context, teamID string) ([]domain.ProjectSummary, error)
}

type DashboardService interface {
	Load(ctx context.Context) (roster.Roster, error)
	Refresh(ctx context.Context) (roster.Roster, error)
}

type StatusService interface {
	GetStatus(ctx context.Context, projectID string) (*ProjectStatus, error)
}
