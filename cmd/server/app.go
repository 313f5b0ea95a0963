package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/config"
	"github.com/medveritas/medveritas-api/internal/events"
	"github.com/medveritas/medveritas-api/internal/platform/gemini"
	"github.com/medveritas/medveritas-api/internal/service"
	"github.com/medveritas/medveritas-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	records *recordBackend

	analyzer        analysis.Analyzer
	analysisService service.AnalysisService
	reminderService service.ReminderService

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies initialized.
// The record backend is opened by the caller and released by cleanup.
// analyzer may be nil, in which case the Gemini analyzer is built from cfg.LLM.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	records *recordBackend,
	analyzer analysis.Analyzer,
) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		records:  records,
		analyzer: analyzer,
	}

	if app.analyzer == nil {
		geminiAnalyzer, err := gemini.NewGeminiAnalyzer(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize analyzer: %w", err)
		}
		app.analyzer = geminiAnalyzer
	}

	var err error
	app.taskRunner, err = setupTaskRunner(cfg.Task, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	taskFactory, err := task.NewAnalysisTaskFactory(app.analyzer, logger)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create task factory: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(
		events.AnalysisRequested,
		task.NewTaskFactoryEventHandler(taskFactory, app.taskRunner, logger),
	)

	app.analysisService, err = service.NewAnalysisService(app.analyzer, app.eventEmitter, app.taskRunner, logger)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}

	app.reminderService, err = service.NewReminderService(records.store, cfg.Storage.RecordName, logger)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create reminder service: %w", err)
	}

	// A failed load is retried on the first request; the server starts anyway.
	if err := app.reminderService.Load(ctx); err != nil {
		logger.Warn("Could not load reminders at startup", "error", err)
	}

	logger.Info("Application initialized successfully",
		"storage_backend", cfg.Storage.Backend,
		"analysis_available", cfg.LLM.HasCredential())
	return app, nil
}

// setupTaskRunner initializes and starts the background analysis job runner.
func setupTaskRunner(cfg config.TaskConfig, logger *slog.Logger) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount:  cfg.WorkerCount,
		QueueSize:    cfg.QueueSize,
		JobRetention: time.Duration(cfg.JobRetentionMinutes) * time.Minute,
	}, logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}
	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.records != nil {
		if err := app.records.close(); err != nil {
			app.logger.Error("Error closing record store", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

// serve opens the record store, builds the application and runs the HTTP
// server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	records, err := openRecordStore(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	app, err := newApplication(ctx, cfg, logger, records, nil)
	if err != nil {
		if closeErr := records.close(); closeErr != nil {
			logger.Error("Error closing record store", "error", closeErr)
		}
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}

// Run starts the application server and blocks until ctx is cancelled or
// the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
