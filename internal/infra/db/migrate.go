package db

import "database/sql"

// MigrateUp creates the schema if it does not exist yet.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS user_preferences (
    user_id    TEXT PRIMARY KEY,
    prefs      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS interaction_events (
    id                  BIGSERIAL PRIMARY KEY,
    event_id            TEXT NOT NULL UNIQUE,
    user_id             TEXT NOT NULL,
    action              VARCHAR(20) NOT NULL,
    refined_action      VARCHAR(20) NOT NULL,
    content_id          TEXT NOT NULL,
    category            VARCHAR(20) NOT NULL,
    title               TEXT NOT NULL DEFAULT '',
    reading_duration_ms BIGINT NOT NULL DEFAULT 0,
    scroll_percent      DOUBLE PRECISION NOT NULL DEFAULT 0,
    engagement_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
    occurred_at         TIMESTAMPTZ NOT NULL
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE INDEX IF NOT EXISTS idx_interaction_events_user_occurred
ON interaction_events (user_id, occurred_at DESC)`); err != nil {
		return err
	}

	_, err := db.Exec(`
CREATE INDEX IF NOT EXISTS idx_interaction_events_occurred
ON interaction_events (occurred_at)`)
	return err
}
