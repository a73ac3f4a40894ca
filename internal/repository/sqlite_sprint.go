package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

type SQLiteSprintRepo struct {
	db db.DBTX
}

func NewSQLiteSprintRepo(conn db.DBTX) *SQLiteSprintRepo {
	return &SQLiteSprintRepo{db: conn}
}

const sprintColumns = `id, project_id, name, goal, start_date, end_date`

// Create appends the sprint to its project's ordering.
func (r *SQLiteSprintRepo) Create(ctx context.Context, s *domain.Sprint) error {
	query := `INSERT INTO sprints (id, project_id, name, goal, start_date, end_date, seq)
		SELECT ?, ?, ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM sprints WHERE project_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.Name,
		s.Goal,
		s.StartDate.Format(dateLayout),
		s.EndDate.Format(dateLayout),
		s.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("inserting sprint: %w", err)
	}
	return nil
}

func (r *SQLiteSprintRepo) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sprintColumns+` FROM sprints WHERE id = ?`, id)
	s, err := scanSprint(row)
	if err != nil {
		return nil, notFound(err, "sprint", id)
	}
	return s, nil
}

func (r *SQLiteSprintRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE project_id = ? ORDER BY seq, rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	var sprints []domain.Sprint
	for rows.Next() {
		s, err := scanSprint(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sprint row: %w", err)
		}
		sprints = append(sprints, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return sprints, nil
}

// Delete removes the sprint. Tasks keep their now dangling reference.
func (r *SQLiteSprintRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sprints WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sprint: %w", err)
	}
	return requireAffected(res, "sprint", id)
}

func scanSprint(s scanner) (*domain.Sprint, error) {
	var sp domain.Sprint
	var start, end string
	if err := s.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &sp.Goal, &start, &end); err != nil {
		return nil, err
	}
	var err error
	if sp.StartDate, err = parseDate("start_date", start); err != nil {
		return nil, err
	}
	if sp.EndDate, err = parseDate("end_date", end); err != nil {
		return nil, err
	}
	return &sp, nil
}
