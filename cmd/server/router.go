package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/surgeryhub/dailydose-api/internal/api"
	apiMiddleware "github.com/surgeryhub/dailydose-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	doseHandler := api.NewDoseHandler(
		app.taskRunner,
		app.generator,
		app.doseService,
		app.publishService,
		app.logger,
	)
	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)
	cardHandler := api.NewCardHandler(app.reviewStateStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Dose endpoints
			r.Post("/doses/generate", doseHandler.Generate)
			r.Post("/doses/parse", doseHandler.Parse)
			r.Get("/doses", doseHandler.List)
			r.Get("/doses/{id}", doseHandler.Get)
			r.Post("/doses/{id}/publish", doseHandler.Publish)

			// Review endpoints
			r.Post("/sessions/complete", sessionHandler.Complete)
			r.Get("/cards/due", cardHandler.Due)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
