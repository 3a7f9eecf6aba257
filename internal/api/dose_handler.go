package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/surgeryhub/dailydose-api/internal/api/shared"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/generation"
	"github.com/surgeryhub/dailydose-api/internal/genparse"
	"github.com/surgeryhub/dailydose-api/internal/redact"
	"github.com/surgeryhub/dailydose-api/internal/service"
	"github.com/surgeryhub/dailydose-api/internal/task"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// TaskSubmitter enqueues background tasks. The task runner satisfies it.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// DoseHandler handles dose generation, parsing and publication requests.
type DoseHandler struct {
	submitter      TaskSubmitter
	generator      generation.Generator
	doseService    service.DoseService
	publishService service.PublishService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewDoseHandler creates a new DoseHandler with the given dependencies.
func NewDoseHandler(
	submitter TaskSubmitter,
	generator generation.Generator,
	doseService service.DoseService,
	publishService service.PublishService,
	logger *slog.Logger,
) *DoseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DoseHandler{
		submitter:      submitter,
		generator:      generator,
		doseService:    doseService,
		publishService: publishService,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "dose_handler")),
	}
}

// Generate handles POST /api/doses/generate: it enqueues a background
// generation task and returns 202 with the task ID.
func (h *DoseHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, surgeryID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req GenerateDoseRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Prompt text is required (3-4000 characters)")
		return
	}

	genTask, err := task.NewDoseGenerationTask(surgeryID, userID, req.PromptText, h.generator, h.doseService, h.logger)
	if err != nil {
		h.logger.Error("failed to build generation task", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to enqueue generation")
		return
	}

	if err := h.submitter.Submit(r.Context(), genTask); err != nil {
		h.logger.Error("failed to submit generation task", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Generation queue is full, try again later")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateDoseResponse{
		TaskID: genTask.ID(),
		Status: string(task.TaskStatusPending),
	})
}

// Parse handles POST /api/doses/parse: raw model output is parsed and
// validated synchronously. Failures return 422 with code SCHEMA_MISMATCH and
// a path-addressed issue list.
func (h *DoseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireIdentity(w, r); !ok {
		return
	}

	var req ParseDoseRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Raw text is required")
		return
	}

	result := genparse.ParseAndValidate(req.RawText)
	if !result.OK() {
		shared.RespondWithErrorResponse(w, r, http.StatusUnprocessableEntity, shared.ErrorResponse{
			Error:  "Model output did not match the expected schema",
			Code:   shared.CodeSchemaMismatch,
			Issues: result.Issues,
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParseDoseResponse{
		Data:     result.Data,
		Repaired: result.Repaired,
	})
}

// Get handles GET /api/doses/{id}.
func (h *DoseHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, surgeryID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	doseID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dose ID")
		return
	}

	dose, err := h.doseService.GetDose(r.Context(), doseID, surgeryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDoseNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "Dose not found")
		case errors.Is(err, service.ErrNotOwned):
			shared.RespondWithError(w, r, http.StatusForbidden, "Dose belongs to another surgery")
		default:
			h.logger.Error("failed to get dose", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to get dose")
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewDoseResponse(dose))
}

// List handles GET /api/doses. An optional status query parameter filters
// by dose status; limit and offset paginate.
func (h *DoseHandler) List(w http.ResponseWriter, r *http.Request) {
	_, surgeryID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	status := domain.DoseStatus(r.URL.Query().Get("status"))

	limit, err := parseQueryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset, err := parseQueryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid offset parameter")
		return
	}

	doses, err := h.doseService.ListDoses(r.Context(), surgeryID, status, limit, offset)
	if err != nil {
		h.logger.Error("failed to list doses", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list doses")
		return
	}

	responses := make([]DoseResponse, 0, len(doses))
	for _, dose := range doses {
		responses = append(responses, NewDoseResponse(dose))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DoseListResponse{Doses: responses})
}

// Publish handles POST /api/doses/{id}/publish.
func (h *DoseHandler) Publish(w http.ResponseWriter, r *http.Request) {
	_, surgeryID, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	doseID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dose ID")
		return
	}

	dose, err := h.publishService.Publish(r.Context(), doseID, surgeryID)
	if err != nil {
		h.respondPublishError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewDoseResponse(dose))
}

func (h *DoseHandler) respondPublishError(w http.ResponseWriter, r *http.Request, err error) {
	var safetyErr *service.SafetyValidationError

	switch {
	case errors.Is(err, service.ErrDoseNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, "Dose not found")

	case errors.Is(err, service.ErrNotOwned):
		shared.RespondWithError(w, r, http.StatusForbidden, "Dose belongs to another surgery")

	case errors.Is(err, service.ErrDoseNotPublishable):
		shared.RespondWithError(w, r, http.StatusConflict, "Dose cannot be published from its current status")

	case errors.Is(err, service.ErrClinicianApprovalRequired):
		shared.RespondWithErrorResponse(w, r, http.StatusConflict, shared.ErrorResponse{
			Error: "High-risk content requires clinician approval before publishing",
			Code:  shared.CodeClinicianApprovalRequired,
		})

	case errors.As(err, &safetyErr):
		shared.RespondWithErrorResponse(w, r, http.StatusUnprocessableEntity, shared.ErrorResponse{
			Error:      "Safety validation failed",
			Code:       shared.CodeSafetyValidationFailed,
			Violations: safetyErr.Violations,
		})

	default:
		h.logger.Error("publish failed", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to publish dose")
	}
}
