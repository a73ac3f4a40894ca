package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, title, description, status, priority, sprint_id, created_at`

// Create appends the task to its project's ordering.
func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	now := nowUTC()
	created := now
	if !t.CreatedAt.IsZero() {
		created = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	query := `INSERT INTO tasks (id, project_id, title, description, status, priority, sprint_id, seq, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ? FROM tasks WHERE project_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableString(t.SprintID),
		created,
		now,
		t.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY seq, rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	return requireAffected(res, "task", id)
}

// SetSprint sets the task's sprint reference; nil clears it.
func (r *SQLiteTaskRepo) SetSprint(ctx context.Context, id string, sprintID *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET sprint_id = ?, updated_at = ? WHERE id = ?`, nullableString(sprintID), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating task sprint: %w", err)
	}
	return requireAffected(res, "task", id)
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var status, priority, createdAt string
	var sprintID sql.NullString
	if err := s.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &priority, &sprintID, &createdAt); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.SprintID = parseNullableString(sprintID)
	var err error
	if t.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
