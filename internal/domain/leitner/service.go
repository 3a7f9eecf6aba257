package leitner

import (
	"errors"
	"time"

	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// Common errors
var (
	ErrNilState    = errors.New("review state cannot be nil")
	ErrInvalidBox  = errors.New("review state box index must be at least 1")
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// Service defines the interface for Leitner scheduler operations.
type Service interface {
	// ApplyReviewOutcome computes the next review state for a card given the
	// previous state and whether today's attempt was correct.
	ApplyReviewOutcome(
		state *domain.ReviewState,
		correct bool,
		now time.Time,
	) (*domain.ReviewState, error)

	// PostponeReview pushes the next due time forward by a number of days.
	PostponeReview(
		state *domain.ReviewState,
		days int,
		now time.Time,
	) (*domain.ReviewState, error)

	// IsCardCorrect reports whether a card with multiple embedded questions
	// counts as passed, using the configured accuracy threshold.
	IsCardCorrect(correctCount, questionCount int) bool
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// ApplyReviewOutcome implements the Service interface. The scheduling
// computation itself is total; the only failure conditions are caller
// contract breaches (nil state or a box index below 1), which indicate a
// programming error rather than untrusted input.
func (s *defaultService) ApplyReviewOutcome(
	state *domain.ReviewState,
	correct bool,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if state.Box < 1 {
		return nil, ErrInvalidBox
	}

	return calculateNextState(state, correct, now, s.params), nil
}

// PostponeReview implements the Service interface for postponing reviews.
func (s *defaultService) PostponeReview(
	state *domain.ReviewState,
	days int,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	newState := *state
	newState.DueAt = state.DueAt.AddDate(0, 0, days)
	newState.UpdatedAt = now

	return &newState, nil
}

// IsCardCorrect implements the Service interface using the configured
// threshold.
func (s *defaultService) IsCardCorrect(correctCount, questionCount int) bool {
	return IsCardCorrect(correctCount, questionCount, s.params.PassThreshold)
}

// IsCardCorrect reports whether the accuracy ratio meets the threshold.
// A card with zero questions attempted is never correct.
func IsCardCorrect(correctCount, questionCount int, threshold float64) bool {
	if questionCount <= 0 || correctCount < 0 {
		return false
	}
	return float64(correctCount)/float64(questionCount) >= threshold
}
