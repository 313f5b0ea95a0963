// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package. Loggers are carried in
// context.Context so request scoped attributes such as trace IDs follow a
// request through the service and storage layers.
package logger
