package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/surgeryhub/dailydose-api/internal/api/shared"
	"github.com/surgeryhub/dailydose-api/internal/redact"
	"github.com/surgeryhub/dailydose-api/internal/service"
)

// SessionHandler handles learner session completion requests.
type SessionHandler struct {
	sessionService service.SessionService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(sessionService service.SessionService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		sessionService: sessionService,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// Complete handles POST /api/sessions/complete: every card outcome in the
// session is applied to the learner's review states atomically.
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, surgeryID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CompleteSessionRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session must contain at least one card result")
		return
	}

	results := make([]service.CardResult, 0, len(req.Results))
	for _, payload := range req.Results {
		results = append(results, service.CardResult{
			CardID:        payload.CardID,
			CorrectCount:  payload.CorrectCount,
			QuestionCount: payload.QuestionCount,
		})
	}

	summary, err := h.sessionService.CompleteSession(r.Context(), userID, surgeryID, results)
	if err != nil {
		if errors.Is(err, service.ErrNoCardResults) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Session must contain at least one card result")
			return
		}
		h.logger.Error("session completion failed", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to complete session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCompleteSessionResponse(summary))
}
