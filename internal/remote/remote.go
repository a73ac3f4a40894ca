// Package remote talks to the project and user services. HTTPClient is the
// production implementation; LocalBackend serves the same operations from
// a SQLite file.
package remote

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Remote is every call the client makes to the backend.
type Remote interface {
	FetchProject(ctx context.Context, projectID string) (*domain.Project, error)
	FetchTeam(ctx context.Context, teamID string) (*domain.Team, error)
	FetchCurrentUser(ctx context.Context) (*domain.User, error)
	ListTeamProjects(ctx context.Context, teamID string) ([]domain.ProjectSummary, error)

	// CreateTask and CreateSprint return the server's record, or nil when
	// the server acknowledged without one.
	CreateTask(ctx context.Context, projectID string, draft domain.TaskDraft) (*domain.Task, error)
	CreateSprint(ctx context.Context, projectID string, draft domain.SprintDraft) (*domain.Sprint, error)

	UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error
	// AssignTaskToSprint with a nil sprintID removes the task from its sprint.
	AssignTaskToSprint(ctx context.Context, taskID string, sprintID *string) error
}

// TokenSource supplies the opaque bearer token attached to each request.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
