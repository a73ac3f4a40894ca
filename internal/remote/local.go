package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
	"github.com/google/uuid"
)

// LocalBackend serves Remote from a SQLite database so the client works
// without the services. Writes run in a transaction each; storage errors
// surface as domain.ErrRemoteFailure like a failed request would.
type LocalBackend struct {
	conn *sql.DB
	uow  db.UnitOfWork
	user domain.User
	now  func() time.Time
}

var _ Remote = (*LocalBackend)(nil)

// NewLocalBackend serves requests as user. Only user.ID, Email and
// DisplayName are used; memberships come from the database.
func NewLocalBackend(conn *sql.DB, user domain.User) *LocalBackend {
	return &LocalBackend{
		conn: conn,
		uow:  db.NewSQLiteUnitOfWork(conn),
		user: user,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (b *LocalBackend) FetchProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var out *domain.Project
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		summary, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		tasks, err := repository.NewSQLiteTaskRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		sprints, err := repository.NewSQLiteSprintRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		out = &domain.Project{
			ID:          summary.ID,
			Name:        summary.Name,
			Description: summary.Description,
			TeamID:      summary.TeamID,
			CreatedAt:   summary.CreatedAt,
			Tasks:       tasks,
			Sprints:     sprints,
		}
		return nil
	})
	if err != nil {
		return nil, backendErr("fetching project", err)
	}
	return out, nil
}

func (b *LocalBackend) ListTeamProjects(ctx context.Context, teamID string) ([]domain.ProjectSummary, error) {
	list, err := repository.NewSQLiteProjectRepo(b.conn).ListByTeam(ctx, teamID)
	if err != nil {
		return nil, backendErr("listing projects", err)
	}
	return list, nil
}

func (b *LocalBackend) FetchTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	t, err := repository.NewSQLiteTeamRepo(b.conn).GetByID(ctx, teamID)
	if err != nil {
		return nil, backendErr("fetching team", err)
	}
	return t, nil
}

func (b *LocalBackend) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	if b.user.ID == "" {
		return nil, fmt.Errorf("%w: no local user configured", domain.ErrUnauthorized)
	}
	ids, err := repository.NewSQLiteTeamRepo(b.conn).ListIDsByUser(ctx, b.user.ID)
	if err != nil {
		return nil, backendErr("fetching user", err)
	}
	u := b.user
	u.Memberships = make([]domain.TeamMembership, 0, len(ids))
	for _, id := range ids {
		u.Memberships = append(u.Memberships, domain.TeamMembership{TeamID: id})
	}
	return &u, nil
}

func (b *LocalBackend) CreateTask(ctx context.Context, projectID string, draft domain.TaskDraft) (*domain.Task, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteFailure, err)
	}
	task := domain.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      domain.TaskTodo,
		Priority:    draft.Priority,
		CreatedAt:   b.now().Truncate(time.Second),
	}
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, &task)
	})
	if err != nil {
		return nil, backendErr("creating task", err)
	}
	return &task, nil
}

func (b *LocalBackend) CreateSprint(ctx context.Context, projectID string, draft domain.SprintDraft) (*domain.Sprint, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteFailure, err)
	}
	sp := domain.Sprint{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      draft.Name,
		Goal:      draft.Goal,
		StartDate: dateOnly(draft.StartDate),
		EndDate:   dateOnly(draft.EndDate),
	}
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		return repository.NewSQLiteSprintRepo(tx).Create(ctx, &sp)
	})
	if err != nil {
		return nil, backendErr("creating sprint", err)
	}
	return &sp, nil
}

func (b *LocalBackend) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", domain.ErrRemoteFailure, status)
	}
	if err := repository.NewSQLiteTaskRepo(b.conn).UpdateStatus(ctx, taskID, status); err != nil {
		return backendErr("updating task status", err)
	}
	return nil
}

// AssignTaskToSprint requires the sprint to belong to the task's project.
func (b *LocalBackend) AssignTaskToSprint(ctx context.Context, taskID string, sprintID *string) error {
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		task, err := tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if sprintID != nil {
			sp, err := repository.NewSQLiteSprintRepo(tx).GetByID(ctx, *sprintID)
			if err != nil {
				return err
			}
			if sp.ProjectID != task.ProjectID {
				return fmt.Errorf("sprint %s is not in project %s: %w", sp.ID, task.ProjectID, domain.ErrNotFound)
			}
		}
		return tasks.SetSprint(ctx, taskID, sprintID)
	})
	if err != nil {
		return backendErr("assigning task", err)
	}
	return nil
}

// CreateTeam creates a team owned by the local user.
func (b *LocalBackend) CreateTeam(ctx context.Context, name, description string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	t := &domain.Team{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if b.user.ID != "" {
		t.Members = []domain.TeamMember{{UserID: b.user.ID, Role: domain.RoleOwner}}
	}
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTeamRepo(tx).Create(ctx, t)
	})
	if err != nil {
		return nil, backendErr("creating team", err)
	}
	return t, nil
}

// AddMember adds userID to the team as a plain member.
func (b *LocalBackend) AddMember(ctx context.Context, teamID, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.NewValidationError("user", "id is required")
	}
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		teams := repository.NewSQLiteTeamRepo(tx)
		if _, err := teams.GetByID(ctx, teamID); err != nil {
			return err
		}
		return teams.AddMember(ctx, teamID, domain.TeamMember{UserID: userID, Role: domain.RoleMember})
	})
	if err != nil {
		return backendErr("adding member", err)
	}
	return nil
}

func (b *LocalBackend) CreateProject(ctx context.Context, teamID, name, description string) (*domain.ProjectSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	p := &domain.Project{
		ID:          uuid.New().String(),
		TeamID:      teamID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   b.now().Truncate(time.Second),
	}
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteTeamRepo(tx).GetByID(ctx, teamID); err != nil {
			return err
		}
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
	if err != nil {
		return nil, backendErr("creating project", err)
	}
	return &domain.ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TeamID:      p.TeamID,
		CreatedAt:   p.CreatedAt,
	}, nil
}

// backendErr keeps ErrNotFound and reports every other storage error as a
// remote failure.
func backendErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrRemoteFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrRemoteFailure, op, err)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
