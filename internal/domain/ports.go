package domain

import (
	"context"

	"github.com/google/uuid"
)

// RecordProvider is the boundary to the external service owning
// persistence for one category. A provider error must never be conflated
// with an empty-but-successful result; callers decide how to degrade.
type RecordProvider interface {
	// ProviderCategory reports which category this provider owns.
	ProviderCategory() Category

	// GetAll fetches every raw record the provider holds for owner.
	GetAll(ctx context.Context, owner uuid.UUID) ([]RawRecord, error)

	// Create stores a new provider-shaped record for owner.
	Create(ctx context.Context, owner uuid.UUID, record RawRecord) error

	// Delete removes one record by its provider-assigned ID.
	Delete(ctx context.Context, owner uuid.UUID, recordID string) error

	// DeleteAll removes every record the provider holds for owner.
	DeleteAll(ctx context.Context, owner uuid.UUID) error
}

// SessionReader exposes the externally-owned session state. The second
// return value reports whether an identity is present; an error means the
// session data could not be read or parsed and is treated by callers as
// "no identity".
type SessionReader interface {
	CurrentIdentity(ctx context.Context) (uuid.UUID, bool, error)
}

// GoalRepository defines the interface for goal persistence operations.
type GoalRepository interface {
	// Get retrieves the goal for an identity.
	// Returns ErrGoalNotFound if none exists.
	Get(ctx context.Context, owner uuid.UUID) (*Goal, error)

	// Save creates or replaces the goal for its owner.
	Save(ctx context.Context, goal *Goal) error
}
