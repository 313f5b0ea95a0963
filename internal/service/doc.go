// Package service contains the application use cases. It sits between the
// HTTP layer and the domain, coordinating the analyzer port, the background
// job runner and the reminder record store.
//
// Key components:
//
// 1. AnalysisService:
//   - Synchronous medicine scans and prescription reads
//   - The connectivity probe, reduced to a boolean
//   - Background jobs published as events and tracked by the task runner
//
// 2. ReminderService:
//   - The persisted reminder collection, loaded once and rewritten in full
//     on every mutation
//   - Corrupt records are discarded with a non-fatal warning
//
// Services receive their dependencies through constructor injection and
// never reference a concrete storage or provider implementation.
package service
