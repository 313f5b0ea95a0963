package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/api/shared"
	"github.com/medveritas/medveritas-api/internal/capture"
	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/service"
	"github.com/medveritas/medveritas-api/internal/store"
	"github.com/medveritas/medveritas-api/internal/task"
)

func TestMapErrorToStatusCodeAndMessage(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"missing credential", analysis.ErrMissingCredential, http.StatusServiceUnavailable, MissingCredentialMessage},
		{"transport", fmt.Errorf("%w: dial tcp: timeout", analysis.ErrTransport), http.StatusBadGateway, "Failed to analyze image"},
		{"invalid response", fmt.Errorf("%w: missing field", analysis.ErrInvalidResponse), http.StatusBadGateway, "Invalid response from AI"},
		{"content blocked", analysis.ErrContentBlocked, http.StatusUnprocessableEntity, "The image was blocked by the AI provider's safety filters"},
		{"invalid image", analysis.ErrInvalidImage, http.StatusBadRequest, "Invalid image data"},
		{"no image", capture.ErrNoImage, http.StatusBadRequest, "No image selected"},
		{"invalid mode", domain.ErrInvalidAnalysisMode, http.StatusBadRequest, "Invalid analysis mode"},
		{"empty medicine name", domain.ErrEmptyMedicineName, http.StatusBadRequest, "Medicine name is required"},
		{"empty reminder time", domain.ErrEmptyReminderTime, http.StatusBadRequest, "Reminder time is required"},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest, "Request body is required"},
		{"malformed body", shared.ErrMalformedBody, http.StatusBadRequest, "Invalid request format"},
		{"body too large", shared.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "Image is too large"},
		{"job not found", task.ErrJobNotFound, http.StatusNotFound, "Analysis job not found"},
		{"queue full", task.ErrQueueFull, http.StatusTooManyRequests, "Too many analyses in progress, try again shortly"},
		{"runner stopped", task.ErrRunnerStopped, http.StatusServiceUnavailable, "Background analysis is unavailable"},
		{"jobs disabled", service.ErrServiceUnavailable, http.StatusServiceUnavailable, "Background analysis is unavailable"},
		{"storage failure", fmt.Errorf("%w: disk full", store.ErrStorageFailure), http.StatusInternalServerError, "An unexpected error occurred"},
		{"unknown", errors.New("postgres://user:secret@db/x exploded"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.wantMessage, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestGetSafeErrorMessage_Nil(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&CreateReminderRequest{MedicineName: "Aspirin", Time: "9am"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))
	assert.Equal(t, "Invalid time: expected HH:MM", SanitizeValidationError(err))

	err = shared.ValidateRequest(&CreateReminderRequest{Time: "09:00"})
	require.Error(t, err)
	assert.Equal(t, "Invalid medicineName: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
