package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/domain/leitner"
	"github.com/surgeryhub/dailydose-api/internal/platform/logger"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

// XP awards for session completion.
const (
	xpPerCardReviewed = 5
	xpPerCardCorrect  = 10
)

// CardResult is one card's outcome within a completed session.
type CardResult struct {
	CardID        uuid.UUID `json:"card_id"`
	CorrectCount  int       `json:"correct_count"`
	QuestionCount int       `json:"question_count"`
}

// SessionSummary aggregates a completed session: per-card pass results have
// already been folded into review states when it is returned.
type SessionSummary struct {
	CardsReviewed int       `json:"cards_reviewed"`
	CardsCorrect  int       `json:"cards_correct"`
	Accuracy      float64   `json:"accuracy"`
	XPEarned      int       `json:"xp_earned"`
	CompletedAt   time.Time `json:"completed_at"`
}

// SessionService applies review outcomes when a learner finishes a session.
type SessionService interface {
	// CompleteSession applies the scheduler once per card result inside a
	// single transaction. Either every card's review state advances or none
	// does.
	CompleteSession(ctx context.Context, userID, surgeryID uuid.UUID, results []CardResult) (*SessionSummary, error)
}

type sessionServiceImpl struct {
	db               *sql.DB
	reviewStateStore store.ReviewStateStore
	scheduler        leitner.Service
	timeFunc         func() time.Time
	runTx            func(ctx context.Context, db *sql.DB, fn store.TxFn) error // Injectable for testing
	logger           *slog.Logger
}

var _ SessionService = (*sessionServiceImpl)(nil)

// NewSessionService creates a new SessionService.
func NewSessionService(
	db *sql.DB,
	reviewStateStore store.ReviewStateStore,
	scheduler leitner.Service,
	logger *slog.Logger,
) (SessionService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if reviewStateStore == nil {
		return nil, errors.New("reviewStateStore cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionServiceImpl{
		db:               db,
		reviewStateStore: reviewStateStore,
		scheduler:        scheduler,
		timeFunc:         time.Now,
		runTx:            store.RunInTransaction,
		logger:           logger.With(slog.String("component", "session_service")),
	}, nil
}

// CompleteSession implements SessionService.
func (s *sessionServiceImpl) CompleteSession(
	ctx context.Context,
	userID, surgeryID uuid.UUID,
	results []CardResult,
) (*SessionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(results) == 0 {
		return nil, ErrNoCardResults
	}

	now := s.timeFunc().UTC()
	summary := &SessionSummary{
		CardsReviewed: len(results),
		CompletedAt:   now,
	}

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.reviewStateStore.WithTx(tx)

		for _, result := range results {
			correct := s.scheduler.IsCardCorrect(result.CorrectCount, result.QuestionCount)
			if correct {
				summary.CardsCorrect++
			}

			state, err := txStore.GetForUpdate(ctx, userID, result.CardID)
			if err != nil {
				if !errors.Is(err, store.ErrReviewStateNotFound) {
					return fmt.Errorf("failed to load review state: %w", err)
				}
				// First review of this card.
				state, err = domain.NewReviewState(userID, result.CardID, surgeryID)
				if err != nil {
					return fmt.Errorf("failed to create review state: %w", err)
				}
			}

			next, err := s.scheduler.ApplyReviewOutcome(state, correct, now)
			if err != nil {
				return fmt.Errorf("failed to apply review outcome: %w", err)
			}

			if err := txStore.Save(ctx, next); err != nil {
				return fmt.Errorf("failed to save review state: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		log.Error("session completion failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("card_count", len(results)))
		return nil, err
	}

	summary.Accuracy = float64(summary.CardsCorrect) / float64(summary.CardsReviewed)
	summary.XPEarned = summary.CardsReviewed*xpPerCardReviewed + summary.CardsCorrect*xpPerCardCorrect

	log.Info("session completed",
		slog.String("user_id", userID.String()),
		slog.Int("cards_reviewed", summary.CardsReviewed),
		slog.Int("cards_correct", summary.CardsCorrect),
		slog.Int("xp_earned", summary.XPEarned))

	return summary, nil
}
