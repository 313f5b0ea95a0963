package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAnalysisMode is returned when an analysis mode is not one of
	// the two supported modes.
	ErrInvalidAnalysisMode = fmt.Errorf("%w: invalid analysis mode", ErrValidation)

	// ErrEmptyReminderID is returned when a reminder has no identifier.
	ErrEmptyReminderID = fmt.Errorf("%w: reminder ID cannot be empty", ErrValidation)

	// ErrEmptyMedicineName is returned when a reminder draft has no medicine name.
	ErrEmptyMedicineName = fmt.Errorf("%w: medicine name cannot be empty", ErrValidation)

	// ErrEmptyReminderTime is returned when a reminder draft has no time of day.
	ErrEmptyReminderTime = fmt.Errorf("%w: reminder time cannot be empty", ErrValidation)
)
