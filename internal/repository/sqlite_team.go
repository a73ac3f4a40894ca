package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

// SQLiteTeamRepo implements TeamRepo using a SQLite database.
type SQLiteTeamRepo struct {
	db db.DBTX
}

func NewSQLiteTeamRepo(conn db.DBTX) *SQLiteTeamRepo {
	return &SQLiteTeamRepo{db: conn}
}

// Create inserts the team and its initial members.
func (r *SQLiteTeamRepo) Create(ctx context.Context, t *domain.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	for _, m := range t.Members {
		if err := r.AddMember(ctx, t.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var t domain.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM teams WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		return nil, notFound(err, "team", id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, role FROM team_members WHERE team_id = ? ORDER BY joined_at, rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.TeamMember
		var role string
		if err := rows.Scan(&m.UserID, &role); err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}
		m.Role = domain.MemberRole(role)
		t.Members = append(t.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team members: %w", err)
	}
	return &t, nil
}

// AddMember adds or re-roles a member.
func (r *SQLiteTeamRepo) AddMember(ctx context.Context, teamID string, m domain.TeamMember) error {
	role := m.Role
	if role == "" {
		role = domain.RoleMember
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(team_id, user_id) DO UPDATE SET role = excluded.role`,
		teamID, m.UserID, string(role), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("adding member %s to team %s: %w", m.UserID, teamID, err)
	}
	return nil
}

// ListIDsByUser returns the ids of the teams userID belongs to, in join
// order.
func (r *SQLiteTeamRepo) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT team_id FROM team_members WHERE user_id = ? ORDER BY joined_at, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team ids: %w", err)
	}
	return ids, nil
}
