package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgeryhub/dailydose-api/internal/service"
)

type stubSessionService struct {
	CompleteFn func(ctx context.Context, userID, surgeryID uuid.UUID, results []service.CardResult) (*service.SessionSummary, error)
}

func (s *stubSessionService) CompleteSession(
	ctx context.Context,
	userID, surgeryID uuid.UUID,
	results []service.CardResult,
) (*service.SessionSummary, error) {
	return s.CompleteFn(ctx, userID, surgeryID, results)
}

func TestCompleteSession(t *testing.T) {
	userID := uuid.New()
	surgeryID := uuid.New()
	cardID := uuid.New()

	t.Run("returns session summary", func(t *testing.T) {
		completedAt := time.Now().UTC()
		handler := NewSessionHandler(&stubSessionService{
			CompleteFn: func(ctx context.Context, gotUserID, gotSurgeryID uuid.UUID, results []service.CardResult) (*service.SessionSummary, error) {
				assert.Equal(t, userID, gotUserID)
				assert.Equal(t, surgeryID, gotSurgeryID)
				require.Len(t, results, 1)
				assert.Equal(t, cardID, results[0].CardID)
				assert.Equal(t, 2, results[0].CorrectCount)
				assert.Equal(t, 3, results[0].QuestionCount)

				return &service.SessionSummary{
					CardsReviewed: 1,
					CardsCorrect:  0,
					Accuracy:      0,
					XPEarned:      5,
					CompletedAt:   completedAt,
				}, nil
			},
		}, nil)

		body, err := json.Marshal(CompleteSessionRequest{
			Results: []CardResultPayload{
				{CardID: cardID, CorrectCount: 2, QuestionCount: 3},
			},
		})
		require.NoError(t, err)

		req := authedRequest(t, http.MethodPost, "/api/sessions/complete",
			jsonBody(string(body)), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Complete(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp CompleteSessionResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 1, resp.CardsReviewed)
		assert.Equal(t, 5, resp.XPEarned)
		assert.Equal(t, completedAt.Unix(), resp.CompletedAt.Unix())
	})

	t.Run("empty results rejected before service call", func(t *testing.T) {
		handler := NewSessionHandler(&stubSessionService{
			CompleteFn: func(ctx context.Context, userID, surgeryID uuid.UUID, results []service.CardResult) (*service.SessionSummary, error) {
				t.Fatal("service must not be called for an empty session")
				return nil, nil
			},
		}, nil)

		req := authedRequest(t, http.MethodPost, "/api/sessions/complete",
			jsonBody(`{"results":[]}`), userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Complete(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("question count below one rejected", func(t *testing.T) {
		req := authedRequest(t, http.MethodPost, "/api/sessions/complete",
			jsonBody(`{"results":[{"card_id":"`+cardID.String()+`","correct_count":0,"question_count":0}]}`),
			userID, surgeryID)
		rr := httptest.NewRecorder()

		handler := NewSessionHandler(&stubSessionService{
			CompleteFn: func(ctx context.Context, userID, surgeryID uuid.UUID, results []service.CardResult) (*service.SessionSummary, error) {
				t.Fatal("service must not be called for invalid results")
				return nil, nil
			},
		}, nil)

		handler.Complete(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service failure returns 500", func(t *testing.T) {
		handler := NewSessionHandler(&stubSessionService{
			CompleteFn: func(ctx context.Context, userID, surgeryID uuid.UUID, results []service.CardResult) (*service.SessionSummary, error) {
				return nil, errors.New("transaction aborted")
			},
		}, nil)

		req := authedRequest(t, http.MethodPost, "/api/sessions/complete",
			jsonBody(`{"results":[{"card_id":"`+cardID.String()+`","correct_count":1,"question_count":1}]}`),
			userID, surgeryID)
		rr := httptest.NewRecorder()

		handler.Complete(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		handler := NewSessionHandler(&stubSessionService{}, nil)

		req := authedRequest(t, http.MethodPost, "/api/sessions/complete",
			jsonBody(`{"results":[]}`), uuid.Nil, uuid.Nil)
		rr := httptest.NewRecorder()

		handler.Complete(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
