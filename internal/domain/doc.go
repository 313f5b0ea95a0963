// Package domain contains the core entities of the medicine assistant: the
// two analysis results produced by the AI provider (authenticity reports and
// prescription transcripts) and the locally persisted dosage reminders.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
