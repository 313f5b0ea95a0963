package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/store"
)

// CorruptRecordWarning is reported by Warning after a persisted reminder
// record could not be parsed and was discarded.
const CorruptRecordWarning = "Saved reminders could not be read and were reset."

// maxIDAttempts bounds ID regeneration on collision.
const maxIDAttempts = 5

// ErrIDGeneration is returned when no unused reminder ID could be produced.
var ErrIDGeneration = errors.New("failed to generate unique reminder ID")

// ReminderService manages the persisted reminder collection. Every mutation
// rewrites the whole record.
type ReminderService interface {
	// Load reads the persisted collection. A record that is missing yields an
	// empty collection; a record that cannot be parsed is discarded with a
	// warning instead of an error.
	Load(ctx context.Context) error

	// List returns the collection in insertion order.
	List(ctx context.Context) ([]domain.Reminder, error)

	// Add creates a reminder from draft, appends it and persists.
	Add(ctx context.Context, draft domain.ReminderDraft) (*domain.Reminder, error)

	// Remove deletes the reminder with id and persists. Absent ids are a no-op.
	Remove(ctx context.Context, id string) error

	// ToggleActive flips the active flag of the reminder with id and persists.
	// Absent ids are a no-op.
	ToggleActive(ctx context.Context, id string) error

	// Warning returns the non-fatal load warning, or "" if there is none.
	Warning() string
}

// ReminderServiceError wraps errors from the reminder service with context.
type ReminderServiceError struct {
	// Operation is the operation that failed (e.g., "add_reminder")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ReminderServiceError.
func (e *ReminderServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reminder service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("reminder service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ReminderServiceError) Unwrap() error {
	return e.Err
}

// NewReminderServiceError creates a new ReminderServiceError.
// Validation errors are returned directly without wrapping.
func NewReminderServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return &ReminderServiceError{Operation: operation, Message: message, Err: err}
}

// IDGenerator produces reminder IDs.
type IDGenerator func() (string, error)

// NewTimeOrderedID returns a UUIDv7 string, which sorts by creation time.
func NewTimeOrderedID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ReminderOption configures the reminder service.
type ReminderOption func(*reminderServiceImpl)

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(gen IDGenerator) ReminderOption {
	return func(s *reminderServiceImpl) {
		s.newID = gen
	}
}

// reminderServiceImpl implements the ReminderService interface
type reminderServiceImpl struct {
	records    store.RecordStore
	recordName string
	logger     *slog.Logger
	newID      IDGenerator

	mu        sync.Mutex
	reminders []domain.Reminder
	loaded    bool
	warning   string
}

// NewReminderService creates a new ReminderService over the named record.
// It returns an error if any of the required dependencies are nil.
func NewReminderService(
	records store.RecordStore,
	recordName string,
	logger *slog.Logger,
	opts ...ReminderOption,
) (ReminderService, error) {
	if records == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "records cannot be nil"}
	}
	if recordName == "" {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "recordName cannot be empty"}
	}
	if logger == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "logger cannot be nil"}
	}

	s := &reminderServiceImpl{
		records:    records,
		recordName: recordName,
		logger:     logger.With(slog.String("component", "reminder_service")),
		newID:      NewTimeOrderedID,
		reminders:  []domain.Reminder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load implements ReminderService.Load.
func (s *reminderServiceImpl) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *reminderServiceImpl) loadLocked(ctx context.Context) error {
	raw, err := s.records.Get(ctx, s.recordName)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		s.reminders = []domain.Reminder{}
		s.warning = ""
		s.loaded = true
		return nil
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to read reminders", "record", s.recordName, "error", err)
		return NewReminderServiceError("load_reminders", "failed to read reminders", err)
	}

	var reminders []domain.Reminder
	if err := json.Unmarshal(raw, &reminders); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt reminder record",
			"record", s.recordName, "bytes", len(raw), "error", err)
		s.reminders = []domain.Reminder{}
		s.warning = CorruptRecordWarning
		s.loaded = true
		return nil
	}
	if reminders == nil {
		reminders = []domain.Reminder{}
	}

	s.reminders = reminders
	s.warning = ""
	s.loaded = true
	s.logger.DebugContext(ctx, "reminders loaded", "count", len(reminders))
	return nil
}

// ensureLoaded retries a failed startup load before any read or mutation, so
// an unreadable backend never gets overwritten with an empty collection.
func (s *reminderServiceImpl) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// List implements ReminderService.List.
func (s *reminderServiceImpl) List(ctx context.Context) ([]domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.reminders), nil
}

// Add implements ReminderService.Add.
func (s *reminderServiceImpl) Add(ctx context.Context, draft domain.ReminderDraft) (*domain.Reminder, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	id, err := s.uniqueID()
	if err != nil {
		return nil, NewReminderServiceError("add_reminder", "failed to generate ID", err)
	}

	reminder, err := domain.NewReminder(id, draft)
	if err != nil {
		return nil, err
	}

	next := append(slices.Clone(s.reminders), *reminder)
	if err := s.persistLocked(ctx, next); err != nil {
		return nil, NewReminderServiceError("add_reminder", "failed to save reminders", err)
	}

	s.logger.InfoContext(ctx, "reminder added", "reminder_id", reminder.ID)
	return reminder, nil
}

// Remove implements ReminderService.Remove.
func (s *reminderServiceImpl) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	next := slices.DeleteFunc(slices.Clone(s.reminders), func(r domain.Reminder) bool {
		return r.ID == id
	})
	if err := s.persistLocked(ctx, next); err != nil {
		return NewReminderServiceError("remove_reminder", "failed to save reminders", err)
	}

	s.logger.InfoContext(ctx, "reminder removed", "reminder_id", id, "removed", len(next) != len(s.reminders))
	return nil
}

// ToggleActive implements ReminderService.ToggleActive.
func (s *reminderServiceImpl) ToggleActive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	next := slices.Clone(s.reminders)
	for i := range next {
		if next[i].ID == id {
			next[i].Toggle()
		}
	}
	if err := s.persistLocked(ctx, next); err != nil {
		return NewReminderServiceError("toggle_reminder", "failed to save reminders", err)
	}
	return nil
}

// Warning implements ReminderService.Warning.
func (s *reminderServiceImpl) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

// persistLocked writes next in full and adopts it only after the write succeeds.
func (s *reminderServiceImpl) persistLocked(ctx context.Context, next []domain.Reminder) error {
	if next == nil {
		next = []domain.Reminder{}
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}
	if err := s.records.Put(ctx, s.recordName, raw); err != nil {
		s.logger.ErrorContext(ctx, "failed to write reminders", "record", s.recordName, "error", err)
		return err
	}
	s.reminders = next
	s.warning = ""
	return nil
}

func (s *reminderServiceImpl) uniqueID() (string, error) {
	for range maxIDAttempts {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if id != "" && !slices.ContainsFunc(s.reminders, func(r domain.Reminder) bool { return r.ID == id }) {
			return id, nil
		}
	}
	return "", ErrIDGeneration
}
