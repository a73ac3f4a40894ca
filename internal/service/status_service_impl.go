package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/board"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

// ProjectStatus is a read-only summary of one project.
type ProjectStatus struct {
	Project    *domain.Project
	Columns    board.Columns
	Sprints    []board.SprintView
	Unassigned []domain.Task
}

// StatusOf projects p into a ProjectStatus. p must not be nil.
func StatusOf(p *domain.Project) *ProjectStatus {
	return &ProjectStatus{
		Project:    p,
		Columns:    board.ColumnsByStatus(p),
		Sprints:    board.SprintViews(p),
		Unassigned: board.UnassignedTasks(p),
	}
}

type statusService struct {
	fetcher  board.ProjectFetcher
	observer UseCaseObserver
}

func NewStatusService(fetcher board.ProjectFetcher, observers ...UseCaseObserver) StatusService {
	return &statusService{fetcher: fetcher, observer: useCaseObserverOrNoop(observers)}
}

func (s *statusService) GetStatus(ctx context.Context, projectID string) (st *ProjectStatus, err error) {
	fields := map[string]any{"project": projectID}
	defer observe(ctx, s.observer, "project-status", time.Now().UTC(), fields, &err)

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, domain.NewValidationError("project", "id is required")
	}
	p, err := s.fetcher.FetchProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", projectID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("loading project %s: %w", projectID, domain.ErrNotFound)
	}
	fields["tasks"] = len(p.Tasks)
	fields["sprints"] = len(p.Sprints)
	return StatusOf(p), nil
}
