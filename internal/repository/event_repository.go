package repository

import (
	"context"
	"time"

	"newsagent/internal/domain/entity"
)

// StoredEvent is an accepted interaction event enriched with the values
// the learning engine derived from it.
type StoredEvent struct {
	EventID         string
	Event           entity.InteractionEvent
	RefinedAction   entity.Action
	EngagementScore float64
}

// EventRepository stores accepted interaction events.
type EventRepository interface {
	// Append records one accepted event.
	Append(ctx context.Context, ev StoredEvent) error

	// RecentByUser returns up to limit of the user's most recent events,
	// newest first.
	RecentByUser(ctx context.Context, userID string, limit int) ([]StoredEvent, error)

	// DeleteOlderThan removes events accepted before cutoff across all
	// users. Returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
