package analysis

import "errors"

// Common errors returned by Analyzer implementations.
var (
	// ErrMissingCredential is returned before any network attempt when no
	// provider API key is configured.
	ErrMissingCredential = errors.New("gemini API key is missing")

	// ErrTransport is returned when the provider call fails outright.
	ErrTransport = errors.New("failed to analyze image")

	// ErrInvalidResponse is returned when the provider text is not JSON or
	// does not match the declared schema.
	ErrInvalidResponse = errors.New("invalid response from AI")

	// ErrContentBlocked is returned when the provider's safety filters block the response.
	ErrContentBlocked = errors.New("content blocked by provider safety filters")

	// ErrInvalidImage is returned when the image payload cannot be decoded.
	ErrInvalidImage = errors.New("invalid image payload")
)
