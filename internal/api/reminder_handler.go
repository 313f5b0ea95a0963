package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medveritas/medveritas-api/internal/api/shared"
	"github.com/medveritas/medveritas-api/internal/platform/logger"
	"github.com/medveritas/medveritas-api/internal/service"
)

// ReminderHandler handles reminder-related HTTP requests
type ReminderHandler struct {
	reminderService service.ReminderService
	logger          *slog.Logger
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService service.ReminderService, logger *slog.Logger) *ReminderHandler {
	if reminderService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reminderService cannot be nil for ReminderHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReminderHandler")
	}

	return &ReminderHandler{
		reminderService: reminderService,
		logger:          logger.With(slog.String("component", "reminder_handler")),
	}
}

// ListReminders handles GET /api/reminders requests
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load reminders")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReminderListResponse{
		Reminders: reminders,
		Warning:   h.reminderService.Warning(),
	})
}

// CreateReminder handles POST /api/reminders requests
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateReminderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	req.MedicineName = strings.TrimSpace(req.MedicineName)
	req.Time = strings.TrimSpace(req.Time)
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reminder, err := h.reminderService.Add(r.Context(), req.toDraft())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save reminder")
		return
	}

	log.Debug("reminder created", slog.String("reminder_id", reminder.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, reminder)
}

// DeleteReminder handles DELETE /api/reminders/{id} requests.
// Deleting an unknown ID succeeds.
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.reminderService.Remove(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete reminder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleReminder handles POST /api/reminders/{id}/toggle requests and
// returns the updated collection.
func (h *ReminderHandler) ToggleReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.reminderService.ToggleActive(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to update reminder")
		return
	}
	h.ListReminders(w, r)
}
