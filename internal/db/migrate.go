package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent and the
// full list is re-run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	// Subtree deletes are issued by the service layer, one delete per
	// descendant, leaf-first. The parent_id cascade only exists so a
	// project-level delete can sweep its rows in one statement.
	`CREATE TABLE IF NOT EXISTS goal_nodes (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id       TEXT REFERENCES goal_nodes(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		description     TEXT,
		notes           TEXT,
		status          TEXT NOT NULL DEFAULT 'open'
		                CHECK(status IN ('open','in_progress','completed','blocked')),
		priority        TEXT NOT NULL DEFAULT 'medium'
		                CHECK(priority IN ('low','medium','high','critical')),
		estimated_hours REAL,
		due_date        TEXT,
		order_index     INTEGER NOT NULL DEFAULT 0,
		is_collapsed    INTEGER NOT NULL DEFAULT 0,
		categories      TEXT,
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_goal_nodes_project ON goal_nodes(project_id)`,

	`CREATE INDEX IF NOT EXISTS idx_goal_nodes_parent ON goal_nodes(parent_id)`,

	`CREATE INDEX IF NOT EXISTS idx_goal_nodes_status ON goal_nodes(status)`,
}
