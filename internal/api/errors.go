package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/api/shared"
	"github.com/medveritas/medveritas-api/internal/capture"
	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/service"
	"github.com/medveritas/medveritas-api/internal/task"
)

// MissingCredentialMessage is shown when no provider credential is configured.
// Reminder endpoints keep working in that state.
const MissingCredentialMessage = "AI analysis is not configured: set GEMINI_API_KEY to enable scanning"

// MapErrorToStatusCode maps internal errors to HTTP status codes so internal
// error types never reach clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, capture.ErrNoImage),
		errors.Is(err, capture.ErrInvalidDataURL),
		errors.Is(err, analysis.ErrInvalidImage),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrMalformedBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	// Not found errors
	case errors.Is(err, task.ErrJobNotFound):
		return http.StatusNotFound

	// Content the provider refused to analyze
	case errors.Is(err, analysis.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Capacity errors
	case errors.Is(err, task.ErrQueueFull):
		return http.StatusTooManyRequests

	// Configuration and availability errors
	case errors.Is(err, analysis.ErrMissingCredential),
		errors.Is(err, service.ErrServiceUnavailable),
		errors.Is(err, task.ErrRunnerStopped),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	// Provider errors
	case errors.Is(err, analysis.ErrTransport),
		errors.Is(err, analysis.ErrInvalidResponse):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, analysis.ErrMissingCredential):
		return MissingCredentialMessage
	case errors.Is(err, analysis.ErrTransport):
		return "Failed to analyze image"
	case errors.Is(err, analysis.ErrInvalidResponse):
		return "Invalid response from AI"
	case errors.Is(err, analysis.ErrContentBlocked):
		return "The image was blocked by the AI provider's safety filters"

	case errors.Is(err, capture.ErrNoImage):
		return "No image selected"
	case errors.Is(err, capture.ErrInvalidDataURL),
		errors.Is(err, analysis.ErrInvalidImage):
		return "Invalid image data"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, shared.ErrMalformedBody):
		return "Invalid request format"
	case errors.Is(err, shared.ErrBodyTooLarge):
		return "Image is too large"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrInvalidAnalysisMode):
		return "Invalid analysis mode"
	case errors.Is(err, domain.ErrEmptyMedicineName):
		return "Medicine name is required"
	case errors.Is(err, domain.ErrEmptyReminderTime):
		return "Reminder time is required"
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, task.ErrJobNotFound):
		return "Analysis job not found"
	case errors.Is(err, task.ErrQueueFull):
		return "Too many analyses in progress, try again shortly"
	case errors.Is(err, service.ErrServiceUnavailable),
		errors.Is(err, task.ErrRunnerStopped),
		errors.Is(err, task.ErrQueueClosed):
		return "Background analysis is unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted error. fallbackMessage replaces the generic message of
// unmapped (500) errors when it is not empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator errors into a message naming the
// first offending field, without exposing struct names.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "datetime":
		return "expected HH:MM"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
