// Package postgres implements the persistence interfaces over PostgreSQL.
// Preference vectors are stored as one JSONB document per user; events are
// stored as append-only rows.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"newsagent/internal/domain/entity"
	"newsagent/internal/repository"
)

type PreferenceRepo struct{ db *sql.DB }

func NewPreferenceRepo(db *sql.DB) repository.PreferenceRepository {
	return &PreferenceRepo{db: db}
}

func (repo *PreferenceRepo) Save(ctx context.Context, userID string, prefs entity.PreferenceVector) error {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("Save: marshal prefs: %w", err)
	}

	const query = `
INSERT INTO user_preferences (user_id, prefs, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET prefs = EXCLUDED.prefs, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, query, userID, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

func (repo *PreferenceRepo) Get(ctx context.Context, userID string) (entity.PreferenceVector, error) {
	const query = `
SELECT prefs
FROM user_preferences
WHERE user_id = $1
LIMIT 1`
	var payload []byte
	err := repo.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	var prefs entity.PreferenceVector
	if err := json.Unmarshal(payload, &prefs); err != nil {
		return nil, fmt.Errorf("Get: unmarshal prefs: %w", err)
	}
	return prefs, nil
}

func (repo *PreferenceRepo) LoadAll(ctx context.Context) (map[string]entity.PreferenceVector, error) {
	const query = `
SELECT user_id, prefs
FROM user_preferences
ORDER BY user_id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("LoadAll: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]entity.PreferenceVector, 64)
	for rows.Next() {
		var userID string
		var payload []byte
		if err := rows.Scan(&userID, &payload); err != nil {
			return nil, fmt.Errorf("LoadAll: %w", err)
		}
		var prefs entity.PreferenceVector
		if err := json.Unmarshal(payload, &prefs); err != nil {
			return nil, fmt.Errorf("LoadAll: unmarshal prefs for %s: %w", userID, err)
		}
		out[userID] = prefs
	}
	return out, rows.Err()
}

func (repo *PreferenceRepo) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM user_preferences WHERE user_id = $1`
	if _, err := repo.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
