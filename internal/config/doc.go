// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic.
//
// The Gemini credential is deliberately optional at load time: analysis
// features report a configuration error when it is missing, while reminders
// keep working.
package config
