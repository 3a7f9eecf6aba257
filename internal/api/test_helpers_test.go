package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/surgeryhub/dailydose-api/internal/api/shared"
)

// authedRequest builds a request carrying the authenticated identity the
// auth middleware would have set.
func authedRequest(t *testing.T, method, target string, body io.Reader, userID, surgeryID uuid.UUID) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, body)

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}
	if surgeryID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.SurgeryIDContextKey, surgeryID)
	}

	return req.WithContext(ctx)
}

// withRouteParam attaches a chi route parameter to the request, the way the
// router would during dispatch.
func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
