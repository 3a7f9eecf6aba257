package leitner

import (
	"time"

	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// calculateNextBox determines the next Leitner box based on the review outcome.
//
// A correct outcome promotes the card by one box, bounded at params.MaxBox.
// An incorrect outcome always demotes the card back to box 1: the design
// intentionally does not allow partial demotion, so the forgetting signal
// stays strong for spaced repetition.
func calculateNextBox(currentBox int, correct bool, params *Params) int {
	if !correct {
		return 1
	}

	next := currentBox + 1
	if next > params.MaxBox {
		next = params.MaxBox
	}
	return next
}

// intervalForBox looks up the review interval in days for the given box.
// The box is clamped into [1, MaxBox] first so the lookup is total even for
// out-of-range input.
func intervalForBox(box int, params *Params) int {
	if box < 1 {
		box = 1
	}
	if box > params.MaxBox {
		box = params.MaxBox
	}
	return params.BoxIntervals[box]
}

// calculateNextState creates a new ReviewState with updated values based on
// the review outcome. It follows the immutable update pattern: the existing
// state is never modified, a new state is returned.
//
// Behaviour:
//   - correct: correct streak incremented, incorrect streak reset, box
//     promoted (bounded at MaxBox)
//   - incorrect: incorrect streak incremented, correct streak reset, box
//     demoted to 1
//   - interval comes from the box schedule, dueAt = now + interval days
func calculateNextState(
	state *domain.ReviewState,
	correct bool,
	now time.Time,
	params *Params,
) *domain.ReviewState {
	newState := &domain.ReviewState{
		UserID:          state.UserID,
		CardID:          state.CardID,
		SurgeryID:       state.SurgeryID,
		Box:             state.Box,
		IntervalDays:    state.IntervalDays,
		DueAt:           state.DueAt,
		CorrectStreak:   state.CorrectStreak,
		IncorrectStreak: state.IncorrectStreak,
		LastReviewedAt:  state.LastReviewedAt,
		CreatedAt:       state.CreatedAt,
		UpdatedAt:       state.UpdatedAt,
	}

	if correct {
		newState.CorrectStreak = state.CorrectStreak + 1
		newState.IncorrectStreak = 0
	} else {
		newState.IncorrectStreak = state.IncorrectStreak + 1
		newState.CorrectStreak = 0
	}

	newState.Box = calculateNextBox(state.Box, correct, params)
	newState.IntervalDays = intervalForBox(newState.Box, params)
	newState.DueAt = now.AddDate(0, 0, newState.IntervalDays)
	newState.LastReviewedAt = now
	newState.UpdatedAt = now

	return newState
}
