package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/platform/logger"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

// PostgresReviewStateStore implements the store.ReviewStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a new PostgreSQL implementation of the
// ReviewStateStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller. If
// logger is nil, a default logger will be used.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure PostgresReviewStateStore implements store.ReviewStateStore
var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

const reviewStateColumns = `
	user_id, card_id, surgery_id, box, interval_days, due_at,
	correct_streak, incorrect_streak, last_reviewed_at, created_at, updated_at
`

// Get implements store.ReviewStateStore.Get.
// Returns store.ErrReviewStateNotFound when no state exists for the pair.
func (s *PostgresReviewStateStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND card_id = $2
	`
	return s.queryOne(ctx, query, userID, cardID)
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate.
// Must be called inside a transaction; the row stays locked until commit or
// rollback.
func (s *PostgresReviewStateStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND card_id = $2
		FOR UPDATE
	`
	return s.queryOne(ctx, query, userID, cardID)
}

func (s *PostgresReviewStateStore) queryOne(ctx context.Context, query string, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var state domain.ReviewState
	var lastReviewedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&state.UserID,
		&state.CardID,
		&state.SurgeryID,
		&state.Box,
		&state.IntervalDays,
		&state.DueAt,
		&state.CorrectStreak,
		&state.IncorrectStreak,
		&lastReviewedAt,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}

	if lastReviewedAt.Valid {
		state.LastReviewedAt = lastReviewedAt.Time
	}

	return &state, nil
}

// Save implements store.ReviewStateStore.Save.
// It upserts on the (user_id, card_id) key so first reviews and subsequent
// ones go through the same path.
func (s *PostgresReviewStateStore) Save(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during save",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("card_id", state.CardID.String()))
		return err
	}

	query := `
		INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			box = EXCLUDED.box,
			interval_days = EXCLUDED.interval_days,
			due_at = EXCLUDED.due_at,
			correct_streak = EXCLUDED.correct_streak,
			incorrect_streak = EXCLUDED.incorrect_streak,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			updated_at = EXCLUDED.updated_at
	`

	var lastReviewedAt sql.NullTime
	if !state.LastReviewedAt.IsZero() {
		lastReviewedAt = sql.NullTime{Time: state.LastReviewedAt, Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		state.CardID,
		state.SurgeryID,
		state.Box,
		state.IntervalDays,
		state.DueAt,
		state.CorrectStreak,
		state.IncorrectStreak,
		lastReviewedAt,
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save review state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("card_id", state.CardID.String()))
		return MapError(err)
	}

	log.Debug("review state saved",
		slog.String("user_id", state.UserID.String()),
		slog.String("card_id", state.CardID.String()),
		slog.Int("box", state.Box))
	return nil
}

// ListDue implements store.ReviewStateStore.ListDue.
func (s *PostgresReviewStateStore) ListDue(ctx context.Context, userID uuid.UUID, due time.Time, limit int) ([]*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND due_at <= $2
		ORDER BY due_at ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, due, limit)
	if err != nil {
		log.Error("failed to list due review states",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var states []*domain.ReviewState
	for rows.Next() {
		var state domain.ReviewState
		var lastReviewedAt sql.NullTime
		if err := rows.Scan(
			&state.UserID,
			&state.CardID,
			&state.SurgeryID,
			&state.Box,
			&state.IntervalDays,
			&state.DueAt,
			&state.CorrectStreak,
			&state.IncorrectStreak,
			&lastReviewedAt,
			&state.CreatedAt,
			&state.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		if lastReviewedAt.Valid {
			state.LastReviewedAt = lastReviewedAt.Time
		}
		states = append(states, &state)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return states, nil
}

// WithTx implements store.ReviewStateStore.WithTx.
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{
		db:     tx,
		logger: s.logger,
	}
}
