package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

type stubReviewStateStore struct {
	ListDueFn func(ctx context.Context, userID uuid.UUID, due time.Time, limit int) ([]*domain.ReviewState, error)
}

func (s *stubReviewStateStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	return nil, store.ErrReviewStateNotFound
}

func (s *stubReviewStateStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	return nil, store.ErrReviewStateNotFound
}

func (s *stubReviewStateStore) Save(ctx context.Context, state *domain.ReviewState) error {
	return nil
}

func (s *stubReviewStateStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	due time.Time,
	limit int,
) ([]*domain.ReviewState, error) {
	return s.ListDueFn(ctx, userID, due, limit)
}

func (s *stubReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return s
}

func TestDueCards(t *testing.T) {
	userID := uuid.New()
	surgeryID := uuid.New()

	dueState := func(cardID uuid.UUID, box int, dueAt time.Time) *domain.ReviewState {
		return &domain.ReviewState{
			UserID:       userID,
			CardID:       cardID,
			SurgeryID:    surgeryID,
			Box:          box,
			IntervalDays: 3,
			DueAt:        dueAt,
		}
	}

	t.Run("lists due cards soonest first", func(t *testing.T) {
		firstCard := uuid.New()
		secondCard := uuid.New()
		now := time.Now().UTC()

		handler := NewCardHandler(&stubReviewStateStore{
			ListDueFn: func(ctx context.Context, gotUserID uuid.UUID, due time.Time, limit int) ([]*domain.ReviewState, error) {
				assert.Equal(t, userID, gotUserID)
				assert.Equal(t, defaultDueLimit, limit)
				return []*domain.ReviewState{
					dueState(firstCard, 2, now.Add(-48*time.Hour)),
					dueState(secondCard, 1, now.Add(-time.Hour)),
				}, nil
			},
		}, nil)

		req := authedRequest(t, http.MethodGet, "/api/cards/due", nil, userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Due(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp DueCardsResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Len(t, resp.Cards, 2)
		assert.Equal(t, firstCard, resp.Cards[0].CardID)
		assert.Equal(t, 2, resp.Cards[0].Box)
		assert.Equal(t, secondCard, resp.Cards[1].CardID)
	})

	t.Run("limit is capped", func(t *testing.T) {
		handler := NewCardHandler(&stubReviewStateStore{
			ListDueFn: func(ctx context.Context, userID uuid.UUID, due time.Time, limit int) ([]*domain.ReviewState, error) {
				assert.Equal(t, maxDueLimit, limit)
				return nil, nil
			},
		}, nil)

		req := authedRequest(t, http.MethodGet, "/api/cards/due?limit=5000", nil, userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Due(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp DueCardsResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Empty(t, resp.Cards)
	})

	t.Run("invalid limit returns 400", func(t *testing.T) {
		handler := NewCardHandler(&stubReviewStateStore{}, nil)

		req := authedRequest(t, http.MethodGet, "/api/cards/due?limit=-1", nil, userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Due(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		handler := NewCardHandler(&stubReviewStateStore{
			ListDueFn: func(ctx context.Context, userID uuid.UUID, due time.Time, limit int) ([]*domain.ReviewState, error) {
				return nil, errors.New("connection reset")
			},
		}, nil)

		req := authedRequest(t, http.MethodGet, "/api/cards/due", nil, userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Due(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		handler := NewCardHandler(&stubReviewStateStore{}, nil)

		req := authedRequest(t, http.MethodGet, "/api/cards/due", nil, uuid.Nil, uuid.Nil)
		rr := httptest.NewRecorder()

		handler.Due(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
