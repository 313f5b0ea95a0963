package domain

import "strings"

// Reminder frequencies offered by clients. Frequency is free text, so any
// other value is accepted as well.
const (
	FrequencyDaily      = "Daily"
	FrequencyTwiceDaily = "Twice Daily"
	FrequencyWeekly     = "Weekly"
	FrequencyAsNeeded   = "As needed"
)

// Defaults applied to a reminder draft when the user leaves a field unset.
const (
	DefaultReminderDosage    = "1 dose"
	DefaultReminderFrequency = FrequencyDaily
)

// Reminder is a locally persisted dosage schedule entry. It carries no
// delivery mechanism; it is data only.
//
// The JSON field names match the persisted record format.
type Reminder struct {
	ID           string `json:"id"`
	MedicineName string `json:"medicineName"`
	Dosage       string `json:"dosage"`
	Time         string `json:"time"`
	Frequency    string `json:"frequency"`
	Active       bool   `json:"active"`
}

// ReminderDraft holds the user supplied fields of a reminder that has not
// been created yet.
type ReminderDraft struct {
	MedicineName string
	Dosage       string
	Time         string
	Frequency    string
}

// Validate checks the fields required at creation time.
func (d ReminderDraft) Validate() error {
	if strings.TrimSpace(d.MedicineName) == "" {
		return ErrEmptyMedicineName
	}
	if strings.TrimSpace(d.Time) == "" {
		return ErrEmptyReminderTime
	}
	return nil
}

// NewReminder creates an active Reminder from a draft and an already
// generated ID, applying the dosage and frequency defaults.
// Returns an error if validation fails.
func NewReminder(id string, draft ReminderDraft) (*Reminder, error) {
	if id == "" {
		return nil, ErrEmptyReminderID
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	dosage := draft.Dosage
	if dosage == "" {
		dosage = DefaultReminderDosage
	}
	frequency := draft.Frequency
	if frequency == "" {
		frequency = DefaultReminderFrequency
	}

	return &Reminder{
		ID:           id,
		MedicineName: draft.MedicineName,
		Dosage:       dosage,
		Time:         draft.Time,
		Frequency:    frequency,
		Active:       true,
	}, nil
}

// Toggle flips the active flag.
func (r *Reminder) Toggle() {
	r.Active = !r.Active
}
