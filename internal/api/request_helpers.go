package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/api/middleware"
	"github.com/surgeryhub/dailydose-api/internal/api/shared"
)

// maxRequestBodyBytes bounds request bodies so a hostile client cannot
// exhaust memory with an unbounded payload.
const maxRequestBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON decodes the request body into dst, rejecting unknown fields
// and oversized bodies.
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("missing path parameter %q", paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("path parameter %q is not a valid UUID", paramName)
	}

	return id, nil
}

// parseQueryInt reads an integer query parameter, returning def when the
// parameter is absent.
func parseQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q is not an integer", name)
	}

	return value, nil
}

// requireIdentity extracts the authenticated user and surgery IDs from the
// request context, writing a 401 response and returning false when either is
// missing.
func requireIdentity(w http.ResponseWriter, r *http.Request) (userID, surgeryID uuid.UUID, ok bool) {
	userID, ok = middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	surgeryID, ok = middleware.GetSurgeryID(r)
	if !ok || surgeryID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, surgeryID, true
}
