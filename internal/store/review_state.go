package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// ReviewStateStore defines the interface for per-user card review state
// persistence.
type ReviewStateStore interface {
	// Get retrieves the review state for a user and card.
	// Returns ErrReviewStateNotFound when none exists yet; a first review
	// starts from the absence of state.
	// This method does NOT lock the row, so it must not be used when the
	// caller intends to update the state.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)

	// GetForUpdate retrieves the review state with a row-level lock using
	// SELECT FOR UPDATE. Use inside a transaction when the state is about
	// to be recomputed, so concurrent sessions cannot interleave.
	// Returns ErrReviewStateNotFound when none exists.
	GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)

	// Save upserts the review state keyed by (user, card).
	// Returns validation errors from the domain ReviewState if data is
	// invalid.
	Save(ctx context.Context, state *domain.ReviewState) error

	// ListDue retrieves states for the user whose DueAt is at or before the
	// given time, soonest first.
	ListDue(ctx context.Context, userID uuid.UUID, due time.Time, limit int) ([]*domain.ReviewState, error)

	// WithTx returns a new ReviewStateStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ReviewStateStore
}
