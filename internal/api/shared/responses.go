package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/redact"
)

// Machine-readable error codes surfaced to API clients. Clients branch on
// these instead of matching message text.
const (
	CodeSchemaMismatch            = "SCHEMA_MISMATCH"
	CodeSafetyValidationFailed    = "SAFETY_VALIDATION_FAILED"
	CodeClinicianApprovalRequired = "CLINICIAN_APPROVAL_REQUIRED"
	CodeGenerationUpstreamBlocked = "GENERATION_BLOCKED"
	CodeGenerationUpstreamFailed  = "GENERATION_FAILED"
)

// ErrorResponse defines the standard error response structure. Issues carry
// path-addressed parse/validation failures; Violations carry safety rule
// breaches. Both are omitted when empty.
type ErrorResponse struct {
	Error      string                   `json:"error"`
	Code       string                   `json:"code,omitempty"`
	TraceID    string                   `json:"trace_id,omitempty"`
	Issues     []domain.ValidationIssue `json:"issues,omitempty"`
	Violations []domain.SafetyViolation `json:"violations,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code
// and message, attaching the request's trace ID when present.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithErrorResponse(w, r, status, ErrorResponse{Error: message})
}

// RespondWithErrorResponse writes a fully populated error response. The
// TraceID is filled in from the request context.
func RespondWithErrorResponse(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	resp.TraceID = GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", resp.Error,
		"code", resp.Code,
		"trace_id", resp.TraceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, resp)
}

// RespondWithErrorAndLog writes a sanitized JSON error response and logs the
// underlying error in redacted form. 5xx responses log at ERROR level, 4xx
// at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs, slog.String("error", redact.Error(err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   userMessage,
		TraceID: traceID,
	})
}
