package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL migration statements.
// Each entry is applied once in order. New migrations are appended at the end.
var migrations = []string{
	// Migration 0: initial schema
	`CREATE TABLE IF NOT EXISTS users (
		user_id     TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		email       TEXT,
		timezone    TEXT DEFAULT 'UTC',
		preferences TEXT DEFAULT '{}',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS habits (
		habit_id     TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(user_id),
		name         TEXT NOT NULL,
		description  TEXT,
		frequency    TEXT NOT NULL DEFAULT 'daily',
		target_value REAL,
		unit         TEXT,
		is_active    BOOLEAN DEFAULT 1,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS habit_logs (
		log_id    TEXT PRIMARY KEY,
		habit_id  TEXT NOT NULL REFERENCES habits(habit_id),
		user_id   TEXT NOT NULL REFERENCES users(user_id),
		value     REAL NOT NULL,
		notes     TEXT,
		logged_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS goals (
		goal_id      TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(user_id),
		title        TEXT NOT NULL,
		description  TEXT,
		target_date  DATETIME,
		status       TEXT DEFAULT 'active',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		completed_at DATETIME
	)`,

	`CREATE TABLE IF NOT EXISTS reflections (
		reflection_id   TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES users(user_id),
		content         TEXT NOT NULL,
		sentiment_score REAL,
		key_insights    TEXT,
		suggestions     TEXT,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		message_id TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(user_id),
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS memories (
		memory_id  TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(user_id),
		content    TEXT NOT NULL,
		tag        TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_habits_user        ON habits(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_habit_logs_habit   ON habit_logs(habit_id, logged_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_habit_logs_user    ON habit_logs(user_id, logged_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user         ON goals(user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_reflections_user   ON reflections(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_memories_user      ON memories(user_id, tag)`,
}

// applyMigrations runs any migrations that have not yet been applied.
func applyMigrations(conn *sql.DB) error {
	// Ensure the migration tracking table exists first.
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for i, stmt := range migrations {
		var count int
		row := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, i)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", i, err)
		}
		if count > 0 {
			continue
		}

		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}

		if _, err := conn.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, i); err != nil {
			return fmt.Errorf("record migration %d: %w", i, err)
		}
	}

	return nil
}

// applyVectorTables creates the sqlite-vec virtual table for memory embeddings.
// Called separately after the vec extension is confirmed loaded.
func applyVectorTables(conn *sql.DB, dimension int) error {
	stmt := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS vec_memories USING vec0(
		memory_id TEXT PRIMARY KEY,
		embedding float[%d]
	)`, dimension)

	if _, err := conn.Exec(stmt); err != nil {
		return fmt.Errorf("create vector table: %w", err)
	}
	return nil
}
