package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/surgeryhub/dailydose-api/internal/config"
	"github.com/surgeryhub/dailydose-api/internal/domain/leitner"
	"github.com/surgeryhub/dailydose-api/internal/generation"
	"github.com/surgeryhub/dailydose-api/internal/platform/gemini"
	"github.com/surgeryhub/dailydose-api/internal/platform/postgres"
	"github.com/surgeryhub/dailydose-api/internal/safety"
	"github.com/surgeryhub/dailydose-api/internal/service"
	"github.com/surgeryhub/dailydose-api/internal/service/auth"
	"github.com/surgeryhub/dailydose-api/internal/store"
	"github.com/surgeryhub/dailydose-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore        store.UserStore
	doseStore        store.DoseStore
	reviewStateStore store.ReviewStateStore
	taskStore        task.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.Generator
	guard            *safety.Guard
	scheduler        leitner.Service
	doseService      service.DoseService
	sessionService   service.SessionService
	publishService   service.PublishService

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. Core dependencies like configuration, logger, and database
// connection must be established before calling it.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.doseStore = postgres.NewPostgresDoseStore(db, logger)
	app.reviewStateStore = postgres.NewPostgresReviewStateStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	app.guard = safety.NewDefaultGuard()
	app.scheduler = leitner.NewDefaultService()

	app.generator, err = gemini.NewGeminiGenerator(
		ctx,
		logger.With(slog.String("component", "llm_generator")),
		cfg.LLM,
		app.guard,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	logger.Info("LLM generator initialized")

	app.doseService, err = service.NewDoseService(app.doseStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dose service: %w", err)
	}

	app.sessionService, err = service.NewSessionService(
		db,
		app.reviewStateStore,
		app.scheduler,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	app.publishService, err = service.NewPublishService(app.doseStore, app.guard, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create publish service: %w", err)
	}

	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to set up task runner: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
// Tasks recovered from the database after a restart are rehydrated through
// the dose generation task factory.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	factory, err := task.NewDoseGenerationTaskFactory(app.generator, app.doseService, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task factory: %w", err)
	}

	runner := task.NewTaskRunner(app.taskStore, factory, task.TaskRunnerConfig{
		WorkerCount:  app.config.Task.WorkerCount,
		QueueSize:    app.config.Task.QueueSize,
		StuckTaskAge: time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
	}, app.logger)

	if err := runner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return runner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
