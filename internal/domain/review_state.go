package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ReviewState.
var (
	ErrEmptyStateUserID    = errors.New("review state user ID cannot be empty")
	ErrEmptyStateCardID    = errors.New("review state card ID cannot be empty")
	ErrEmptyStateSurgeryID = errors.New("review state surgery ID cannot be empty")
	ErrInvalidBox          = errors.New("box index must be greater than or equal to 1")
	ErrInvalidInterval     = errors.New("interval must be greater than or equal to 0")
	ErrInvalidStreak       = errors.New("streak counts cannot be negative")
)

// ReviewState tracks a user's Leitner-box spaced repetition state for a
// specific learning card within a surgery. One row exists per
// user x card x surgery; it is created on the first review outcome and
// mutated on every subsequent one.
type ReviewState struct {
	UserID          uuid.UUID `json:"user_id"`
	CardID          uuid.UUID `json:"card_id"`
	SurgeryID       uuid.UUID `json:"surgery_id"`
	Box             int       `json:"box"`              // Leitner box index, 1-based
	IntervalDays    int       `json:"interval_days"`    // Days until next due
	DueAt           time.Time `json:"due_at"`           // When the card is next due
	CorrectStreak   int       `json:"correct_streak"`   // Consecutive correct outcomes
	IncorrectStreak int       `json:"incorrect_streak"` // Consecutive incorrect outcomes
	LastReviewedAt  time.Time `json:"last_reviewed_at"` // Zero time for a never-reviewed card
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewReviewState creates the initial state for a user and card: box 1, zero
// streaks, due immediately.
func NewReviewState(userID, cardID, surgeryID uuid.UUID) (*ReviewState, error) {
	now := time.Now().UTC()
	state := &ReviewState{
		UserID:    userID,
		CardID:    cardID,
		SurgeryID: surgeryID,
		Box:       1,
		DueAt:     now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the ReviewState has valid data.
// Returns an error if any field fails validation.
func (s *ReviewState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}

	if s.SurgeryID == uuid.Nil {
		return ErrEmptyStateSurgeryID
	}

	if s.Box < 1 {
		return ErrInvalidBox
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.CorrectStreak < 0 || s.IncorrectStreak < 0 {
		return ErrInvalidStreak
	}

	return nil
}

// NeverReviewed reports whether the card has no prior review history.
func (s *ReviewState) NeverReviewed() bool {
	return s.LastReviewedAt.IsZero()
}
