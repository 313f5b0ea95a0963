package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medveritas/medveritas-api/internal/api"
	apiMiddleware "github.com/medveritas/medveritas-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(app.config.Server.MaxUploadBytes))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	analysisHandler := api.NewAnalysisHandler(app.analysisService, app.logger)
	reminderHandler := api.NewReminderHandler(app.reminderService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/analyses", func(r chi.Router) {
			r.Post("/medicine", analysisHandler.ScanMedicine)
			r.Post("/prescription", analysisHandler.ReadPrescription)

			r.Post("/jobs", analysisHandler.SubmitJob)
			r.Get("/jobs/{id}", analysisHandler.GetJob)
			r.Delete("/jobs/{id}", analysisHandler.CancelJob)
		})

		r.Get("/diagnostics/connection", analysisHandler.TestConnection)

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/", reminderHandler.ListReminders)
			r.Post("/", reminderHandler.CreateReminder)
			r.Delete("/{id}", reminderHandler.DeleteReminder)
			r.Post("/{id}/toggle", reminderHandler.ToggleReminder)
		})
	})

	r.Get("/health", api.HealthHandler(app.config.LLM.HasCredential()))

	return r
}
