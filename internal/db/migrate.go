package db

import (
	"database/sql"
	"fmt"
)

const sqliteSchemaV1 = `
CREATE TABLE IF NOT EXISTS posts (
  id                  INTEGER PRIMARY KEY AUTOINCREMENT,
  title               TEXT NOT NULL,
  content             TEXT NOT NULL,
  keyword             TEXT NOT NULL,
  status              TEXT NOT NULL DEFAULT 'draft',
  score               INTEGER,
  model               TEXT NOT NULL DEFAULT '',
  gen_prompt_tokens   INTEGER NOT NULL DEFAULT 0,
  gen_output_tokens   INTEGER NOT NULL DEFAULT 0,
  score_prompt_tokens INTEGER NOT NULL DEFAULT 0,
  score_output_tokens INTEGER NOT NULL DEFAULT 0,
  created_at          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_status_created
ON posts(status, created_at DESC);

CREATE TABLE IF NOT EXISTS publish_queue (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  keyword      TEXT NOT NULL,
  platform     TEXT NOT NULL,
  scheduled_at TEXT NOT NULL,
  status       TEXT NOT NULL DEFAULT 'queued',
  created_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_publish_queue_status_scheduled
ON publish_queue(status, scheduled_at);
`

const postgresSchemaV1 = `
CREATE TABLE IF NOT EXISTS posts (
  id                  BIGSERIAL PRIMARY KEY,
  title               TEXT NOT NULL,
  content             TEXT NOT NULL,
  keyword             TEXT NOT NULL,
  status              TEXT NOT NULL DEFAULT 'draft',
  score               INTEGER,
  model               TEXT NOT NULL DEFAULT '',
  gen_prompt_tokens   INTEGER NOT NULL DEFAULT 0,
  gen_output_tokens   INTEGER NOT NULL DEFAULT 0,
  score_prompt_tokens INTEGER NOT NULL DEFAULT 0,
  score_output_tokens INTEGER NOT NULL DEFAULT 0,
  created_at          BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_status_created
ON posts(status, created_at DESC);

CREATE TABLE IF NOT EXISTS publish_queue (
  id           BIGSERIAL PRIMARY KEY,
  keyword      TEXT NOT NULL,
  platform     TEXT NOT NULL,
  scheduled_at TEXT NOT NULL,
  status       TEXT NOT NULL DEFAULT 'queued',
  created_at   BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_publish_queue_status_scheduled
ON publish_queue(status, scheduled_at);
`

// migrateSQLite applies schema migrations based on user_version.
func migrateSQLite(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: posts and publish_queue
	if version < 1 {
		if _, err := db.Exec(sqliteSchemaV1); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// migratePostgres applies schema migrations tracked in the schema_version table.
// Each migration runs in its own transaction.
func migratePostgres(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	var version int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema_version: %w", err)
	}

	if version < 1 {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := tx.Exec(postgresSchemaV1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES ($1)`, 1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
	}

	return nil
}
