package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// ProjectLister lists the projects of one team.
type ProjectLister interface {
	ListTeamProjects(ctx context.Context, teamID string) ([]domain.ProjectSummary, error)
}

type projectService struct {
	projects ProjectLister
	observer UseCaseObserver
}

func NewProjectService(projects ProjectLister, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) ListByTeam(ctx context.Context, teamID string) (out []domain.ProjectSummary, err error) {
	fields := map[string]any{"team": teamID}
	defer observe(ctx, s.observer, "list-team-projects", time.Now().UTC(), fields, &err)

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, domain.NewValidationError("team", "id is required")
	}
	out, err = s.projects.ListTeamProjects(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing projects for team %s: %w", teamID, err)
	}
	fields["count"] = len(out)
	return out, nil
}
