// Package repository defines persistence interfaces for the domain.
// Implementations live under internal/infra/adapter/persistence.
//
// Persistence is an optional collaborator: the learning engine functions
// purely in-memory when no repository is wired, and repository failures
// must never corrupt in-memory state (write-behind, not write-through).
package repository

import (
	"context"

	"newsagent/internal/domain/entity"
)

// PreferenceRepository stores per-user preference vectors.
type PreferenceRepository interface {
	// Save upserts the preference vector for userID.
	Save(ctx context.Context, userID string, prefs entity.PreferenceVector) error

	// Get loads the preference vector for userID.
	// Returns (nil, nil) when the user has no stored vector.
	Get(ctx context.Context, userID string) (entity.PreferenceVector, error)

	// LoadAll returns every stored vector keyed by user ID. Used to
	// reconstitute in-memory state at process start.
	LoadAll(ctx context.Context) (map[string]entity.PreferenceVector, error)

	// Delete removes the stored vector for userID. Used by explicit reset.
	Delete(ctx context.Context, userID string) error
}
