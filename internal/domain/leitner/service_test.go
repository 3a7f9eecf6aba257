package leitner

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
)

func TestApplyReviewOutcome(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("nil state returns ErrNilState", func(t *testing.T) {
		_, err := service.ApplyReviewOutcome(nil, true, now)
		if !errors.Is(err, ErrNilState) {
			t.Errorf("expected ErrNilState, got %v", err)
		}
	})

	t.Run("box below 1 returns ErrInvalidBox", func(t *testing.T) {
		state := &domain.ReviewState{
			UserID:    uuid.New(),
			CardID:    uuid.New(),
			SurgeryID: uuid.New(),
			Box:       0,
		}
		_, err := service.ApplyReviewOutcome(state, true, now)
		if !errors.Is(err, ErrInvalidBox) {
			t.Errorf("expected ErrInvalidBox, got %v", err)
		}
	})

	t.Run("first review answered correctly", func(t *testing.T) {
		state, err := domain.NewReviewState(uuid.New(), uuid.New(), uuid.New())
		if err != nil {
			t.Fatalf("NewReviewState failed: %v", err)
		}

		next, err := service.ApplyReviewOutcome(state, true, now)
		if err != nil {
			t.Fatalf("ApplyReviewOutcome failed: %v", err)
		}

		if next.Box != 2 {
			t.Errorf("Box = %d, want 2", next.Box)
		}
		if next.CorrectStreak != 1 {
			t.Errorf("CorrectStreak = %d, want 1", next.CorrectStreak)
		}
		if next.IncorrectStreak != 0 {
			t.Errorf("IncorrectStreak = %d, want 0", next.IncorrectStreak)
		}
		if !next.DueAt.After(now) {
			t.Error("DueAt should be in the future after a correct first review")
		}
	})

	t.Run("returned state passes domain validation", func(t *testing.T) {
		state, err := domain.NewReviewState(uuid.New(), uuid.New(), uuid.New())
		if err != nil {
			t.Fatalf("NewReviewState failed: %v", err)
		}

		next, err := service.ApplyReviewOutcome(state, false, now)
		if err != nil {
			t.Fatalf("ApplyReviewOutcome failed: %v", err)
		}
		if err := next.Validate(); err != nil {
			t.Errorf("next state failed validation: %v", err)
		}
	})
}

func TestPostponeReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("nil state returns ErrNilState", func(t *testing.T) {
		_, err := service.PostponeReview(nil, 1, now)
		if !errors.Is(err, ErrNilState) {
			t.Errorf("expected ErrNilState, got %v", err)
		}
	})

	t.Run("days below 1 returns ErrInvalidDays", func(t *testing.T) {
		state, _ := domain.NewReviewState(uuid.New(), uuid.New(), uuid.New())
		_, err := service.PostponeReview(state, 0, now)
		if !errors.Is(err, ErrInvalidDays) {
			t.Errorf("expected ErrInvalidDays, got %v", err)
		}
	})

	t.Run("due date moves forward by the requested days", func(t *testing.T) {
		state, _ := domain.NewReviewState(uuid.New(), uuid.New(), uuid.New())
		state.DueAt = now

		next, err := service.PostponeReview(state, 3, now)
		if err != nil {
			t.Fatalf("PostponeReview failed: %v", err)
		}

		want := now.AddDate(0, 0, 3)
		if !next.DueAt.Equal(want) {
			t.Errorf("DueAt = %v, want %v", next.DueAt, want)
		}
		if !state.DueAt.Equal(now) {
			t.Error("PostponeReview mutated its input state")
		}
	})
}

func TestIsCardCorrect(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		correct   int
		questions int
		threshold float64
		expected  bool
	}{
		{
			name:      "zero questions attempted is never correct",
			correct:   0,
			questions: 0,
			threshold: 0.7,
			expected:  false,
		},
		{
			name:      "all correct passes",
			correct:   3,
			questions: 3,
			threshold: 0.7,
			expected:  true,
		},
		{
			name:      "exactly at threshold passes",
			correct:   7,
			questions: 10,
			threshold: 0.7,
			expected:  true,
		},
		{
			name:      "below threshold fails",
			correct:   2,
			questions: 3,
			threshold: 0.7,
			expected:  false,
		},
		{
			name:      "two of three passes at two-thirds threshold",
			correct:   2,
			questions: 3,
			threshold: 0.6,
			expected:  true,
		},
		{
			name:      "negative correct count is never correct",
			correct:   -1,
			questions: 3,
			threshold: 0.7,
			expected:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsCardCorrect(tc.correct, tc.questions, tc.threshold)
			if got != tc.expected {
				t.Errorf("IsCardCorrect(%d, %d, %v) = %v, want %v",
					tc.correct, tc.questions, tc.threshold, got, tc.expected)
			}
		})
	}
}
