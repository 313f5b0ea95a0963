// Package render turns analysis results into display-ready views. It holds no
// business logic beyond status classification and empty-field fallbacks.
package render

import (
	"strings"

	"github.com/medveritas/medveritas-api/internal/domain"
)

// Bucket is the visual and semantic class of an authenticity status.
type Bucket string

// Authenticity buckets.
const (
	BucketAuthentic    Bucket = "authentic"
	BucketSuspicious   Bucket = "suspicious"
	BucketUndetermined Bucket = "undetermined"
)

// Fallback text for empty fields.
const (
	NotAvailable           = "N/A"
	InformationUnavailable = "Information not available"
)

// Field is one labelled line of a view.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AuthenticityView is the presentation of a medicine scan.
type AuthenticityView struct {
	Bucket   Bucket  `json:"bucket"`
	Headline string  `json:"headline"`
	Reason   string  `json:"reason"`
	Fields   []Field `json:"fields"`
}

// MedicineView is the presentation of one prescription entry.
type MedicineView struct {
	Name      string  `json:"name"`
	Dosage    string  `json:"dosage"`
	Frequency string  `json:"frequency"`
	Duration  string  `json:"duration"`
	Details   []Field `json:"details"`
}

// PrescriptionView is the presentation of a prescription transcript.
type PrescriptionView struct {
	RawText   string         `json:"rawText"`
	Medicines []MedicineView `json:"medicines"`
}

// Classify maps a status onto its bucket. Any value other than the two
// literal positive statuses is undetermined.
func Classify(status domain.AuthenticityStatus) Bucket {
	switch status {
	case domain.AuthenticityLikelyAuthentic:
		return BucketAuthentic
	case domain.AuthenticitySuspicious:
		return BucketSuspicious
	default:
		return BucketUndetermined
	}
}

// Authenticity builds the view for a medicine scan.
func Authenticity(report *domain.MedicineAuthenticityReport) AuthenticityView {
	if report == nil {
		return AuthenticityView{
			Bucket:   BucketUndetermined,
			Headline: string(domain.AuthenticityUnableToDetermine),
			Reason:   NotAvailable,
		}
	}

	headline := string(report.AuthenticityStatus)
	if strings.TrimSpace(headline) == "" {
		headline = string(domain.AuthenticityUnableToDetermine)
	}

	return AuthenticityView{
		Bucket:   Classify(report.AuthenticityStatus),
		Headline: headline,
		Reason:   orDefault(report.Reason, NotAvailable),
		Fields: []Field{
			{Label: "Brand Name", Value: orDefault(report.BrandName, NotAvailable)},
			{Label: "Salt Composition", Value: orDefault(report.SaltComposition, NotAvailable)},
			{Label: "Manufacturer", Value: orDefault(report.Manufacturer, NotAvailable)},
			{Label: "Batch Number", Value: orDefault(report.BatchNumber, NotAvailable)},
			{Label: "Expiry Date", Value: orDefault(report.ExpiryDate, NotAvailable)},
		},
	}
}

// Prescription builds the view for a prescription transcript. Entry order and
// raw text are kept unchanged.
func Prescription(transcript *domain.PrescriptionTranscript) PrescriptionView {
	if transcript == nil {
		return PrescriptionView{Medicines: []MedicineView{}}
	}

	medicines := make([]MedicineView, 0, len(transcript.Medicines))
	for _, m := range transcript.Medicines {
		medicines = append(medicines, MedicineView{
			Name:      orDefault(m.Name, NotAvailable),
			Dosage:    orDefault(m.Dosage, NotAvailable),
			Frequency: orDefault(m.Frequency, NotAvailable),
			Duration:  orDefault(m.Duration, NotAvailable),
			Details: []Field{
				{Label: "Uses", Value: orDefault(m.Uses, InformationUnavailable)},
				{Label: "Side Effects", Value: orDefault(m.SideEffects, InformationUnavailable)},
				{Label: "Warnings", Value: orDefault(m.Warnings, InformationUnavailable)},
			},
		})
	}

	return PrescriptionView{
		RawText:   transcript.RawText,
		Medicines: medicines,
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
