package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsagent/internal/repository"
)

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) repository.EventRepository {
	return &EventRepo{db: db}
}

// scanEvent scans one interaction event row.
func scanEvent(rows *sql.Rows) (repository.StoredEvent, error) {
	var ev repository.StoredEvent
	var durationMs int64
	if err := rows.Scan(
		&ev.EventID, &ev.Event.UserID, &ev.Event.Action, &ev.RefinedAction,
		&ev.Event.ContentID, &ev.Event.Category, &ev.Event.Title,
		&durationMs, &ev.Event.ScrollPercent, &ev.EngagementScore,
		&ev.Event.Timestamp,
	); err != nil {
		return repository.StoredEvent{}, err
	}
	ev.Event.ReadingDuration = time.Duration(durationMs) * time.Millisecond
	return ev, nil
}

func (repo *EventRepo) Append(ctx context.Context, ev repository.StoredEvent) error {
	const query = `
INSERT INTO interaction_events
  (event_id, user_id, action, refined_action, content_id, category, title,
   reading_duration_ms, scroll_percent, engagement_score, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.db.ExecContext(ctx, query,
		ev.EventID, ev.Event.UserID, string(ev.Event.Action), string(ev.RefinedAction),
		ev.Event.ContentID, string(ev.Event.Category), ev.Event.Title,
		ev.Event.ReadingDuration.Milliseconds(), ev.Event.ScrollPercent,
		ev.EngagementScore, ev.Event.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

func (repo *EventRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]repository.StoredEvent, error) {
	const query = `
SELECT event_id, user_id, action, refined_action, content_id, category, title,
       reading_duration_ms, scroll_percent, engagement_score, occurred_at
FROM interaction_events
WHERE user_id = $1
ORDER BY occurred_at DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("RecentByUser: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]repository.StoredEvent, 0, limit)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("RecentByUser: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (repo *EventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM interaction_events WHERE occurred_at < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	return removed, nil
}
