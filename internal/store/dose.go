package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// DoseStore defines the interface for dose draft persistence.
type DoseStore interface {
	// Create saves a new dose draft.
	// Returns validation errors from the domain Dose if data is invalid.
	Create(ctx context.Context, dose *domain.Dose) error

	// GetByID retrieves a dose by its unique ID.
	// Returns ErrDoseNotFound if the dose does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dose, error)

	// Update persists the dose's current content, status, safety metadata
	// and approval fields.
	// Returns ErrDoseNotFound if the dose does not exist.
	Update(ctx context.Context, dose *domain.Dose) error

	// ListBySurgery retrieves doses for a surgery filtered by status, newest
	// first. A zero-value status returns all doses for the surgery.
	ListBySurgery(ctx context.Context, surgeryID uuid.UUID, status domain.DoseStatus, limit, offset int) ([]*domain.Dose, error)

	// WithTx returns a new DoseStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) DoseStore
}
