package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/surgeryhub/dailydose-api/internal/api/shared"
	"github.com/surgeryhub/dailydose-api/internal/redact"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

// Due-card listing limits.
const (
	defaultDueLimit = 20
	maxDueLimit     = 100
)

// CardHandler handles review-schedule queries.
type CardHandler struct {
	reviewStateStore store.ReviewStateStore
	timeFunc         func() time.Time
	logger           *slog.Logger
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(reviewStateStore store.ReviewStateStore, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		reviewStateStore: reviewStateStore,
		timeFunc:         time.Now,
		logger:           logger.With(slog.String("component", "card_handler")),
	}
}

// Due handles GET /api/cards/due: cards whose next review is at or before
// now, soonest first. An optional ?limit= query parameter caps the result.
func (h *CardHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	limit := defaultDueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		if parsed > maxDueLimit {
			parsed = maxDueLimit
		}
		limit = parsed
	}

	states, err := h.reviewStateStore.ListDue(r.Context(), userID, h.timeFunc().UTC(), limit)
	if err != nil {
		h.logger.Error("failed to list due cards", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list due cards")
		return
	}

	cards := make([]DueCardResponse, 0, len(states))
	for _, state := range states {
		cards = append(cards, DueCardResponse{
			CardID:       state.CardID,
			Box:          state.Box,
			DueAt:        state.DueAt,
			IntervalDays: state.IntervalDays,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{Cards: cards})
}
