package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		team_id      TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id      TEXT NOT NULL,
		role         TEXT NOT NULL DEFAULT 'MEMBER' CHECK(role IN ('OWNER','MEMBER')),
		joined_at    TEXT NOT NULL,
		PRIMARY KEY (team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		team_id     TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sprints (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		seq         INTEGER NOT NULL DEFAULT 0
	)`,
	// sprint_id is a weak reference: deleting a sprint leaves it dangling.
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'TODO'
		            CHECK(status IN ('TODO','IN_PROGRESS','DONE')),
		priority    TEXT NOT NULL DEFAULT 'MEDIUM'
		            CHECK(priority IN ('LOW','MEDIUM','HIGH')),
		sprint_id   TEXT,
		seq         INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`ALTER TABLE sprints ADD COLUMN goal TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_user ON team_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_team ON projects(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_sprint ON tasks(sprint_id)`,
}
