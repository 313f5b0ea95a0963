package domain

import "fmt"

// AnalysisMode selects the prompt and response schema used for a single
// image analysis request.
type AnalysisMode string

// Supported analysis modes.
const (
	// AnalysisModeMedicineScan identifies a medicine package and judges its authenticity.
	AnalysisModeMedicineScan AnalysisMode = "MEDICINE_SCAN"

	// AnalysisModePrescriptionRead transcribes a handwritten prescription.
	AnalysisModePrescriptionRead AnalysisMode = "PRESCRIPTION_READ"
)

// ParseAnalysisMode converts a string into an AnalysisMode.
// Returns ErrInvalidAnalysisMode if the value is not a known mode.
func ParseAnalysisMode(s string) (AnalysisMode, error) {
	mode := AnalysisMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAnalysisMode, s)
	}
	return mode, nil
}

// IsValid reports whether m is one of the supported analysis modes.
func (m AnalysisMode) IsValid() bool {
	switch m {
	case AnalysisModeMedicineScan, AnalysisModePrescriptionRead:
		return true
	default:
		return false
	}
}

// AuthenticityStatus is the provider's classification of a scanned medicine.
type AuthenticityStatus string

// Possible authenticity status values, spelled exactly as the provider is
// instructed to return them.
const (
	AuthenticityLikelyAuthentic   AuthenticityStatus = "Likely Authentic"
	AuthenticitySuspicious        AuthenticityStatus = "Suspicious"
	AuthenticityUnableToDetermine AuthenticityStatus = "Unable to Determine"
)

// IsValid reports whether s is one of the three closed status values.
func (s AuthenticityStatus) IsValid() bool {
	switch s {
	case AuthenticityLikelyAuthentic, AuthenticitySuspicious, AuthenticityUnableToDetermine:
		return true
	default:
		return false
	}
}

// Sentinel values the provider emits instead of guessing.
const (
	NotFoundSentinel    = "Not Found"
	TextUnclearSentinel = "Text Unclear"
)

// MedicineAuthenticityReport is the result of a medicine scan. It is never
// persisted; its lifetime is a single scan interaction.
type MedicineAuthenticityReport struct {
	BrandName          string             `json:"brandName"`
	SaltComposition    string             `json:"saltComposition"`
	Manufacturer       string             `json:"manufacturer"`
	BatchNumber        string             `json:"batchNumber"`
	ExpiryDate         string             `json:"expiryDate"`
	AuthenticityStatus AuthenticityStatus `json:"authenticityStatus"`
	Reason             string             `json:"reason"`
}

// PrescriptionMedicineEntry is one medicine transcribed from a prescription.
// It has no identity beyond its position in the owning transcript.
type PrescriptionMedicineEntry struct {
	Name        string `json:"name"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	Duration    string `json:"duration"`
	Uses        string `json:"uses,omitempty"`
	SideEffects string `json:"sideEffects,omitempty"`
	Warnings    string `json:"warnings,omitempty"`
}

// PrescriptionTranscript is the result of reading a handwritten prescription.
type PrescriptionTranscript struct {
	RawText   string                      `json:"rawText"`
	Medicines []PrescriptionMedicineEntry `json:"medicines"`
}

// AnalysisResult holds the output of one analysis. Exactly one of Medicine
// and Prescription is set, matching Mode.
type AnalysisResult struct {
	Mode         AnalysisMode                `json:"mode"`
	Medicine     *MedicineAuthenticityReport `json:"medicine,omitempty"`
	Prescription *PrescriptionTranscript     `json:"prescription,omitempty"`
}
