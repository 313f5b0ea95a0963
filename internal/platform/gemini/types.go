package gemini

import "github.com/medveritas/medveritas-api/internal/domain"

// medicineScanResponse is the wire shape of a medicine scan. Pointer fields
// distinguish an absent key from an empty string.
type medicineScanResponse struct {
	BrandName          *string `json:"brandName"          validate:"required"`
	SaltComposition    *string `json:"saltComposition"    validate:"required"`
	Manufacturer       *string `json:"manufacturer"       validate:"required"`
	BatchNumber        *string `json:"batchNumber"        validate:"required"`
	ExpiryDate         *string `json:"expiryDate"         validate:"required"`
	AuthenticityStatus *string `json:"authenticityStatus" validate:"required,authstatus"`
	Reason             *string `json:"reason"             validate:"required"`
}

// prescriptionReadResponse is the wire shape of a prescription transcript.
type prescriptionReadResponse struct {
	RawText *string `json:"rawText" validate:"required"`

	// A nil slice means the key was missing; an empty array is accepted.
	Medicines []prescriptionMedicine `json:"medicines" validate:"required,dive"`
}

// prescriptionMedicine is one entry of the medicines array.
type prescriptionMedicine struct {
	Name        *string `json:"name"      validate:"required"`
	Dosage      *string `json:"dosage"    validate:"required"`
	Frequency   *string `json:"frequency" validate:"required"`
	Duration    *string `json:"duration"  validate:"required"`
	Uses        *string `json:"uses,omitempty"`
	SideEffects *string `json:"sideEffects,omitempty"`
	Warnings    *string `json:"warnings,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *medicineScanResponse) toDomain() *domain.MedicineAuthenticityReport {
	return &domain.MedicineAuthenticityReport{
		BrandName:          deref(r.BrandName),
		SaltComposition:    deref(r.SaltComposition),
		Manufacturer:       deref(r.Manufacturer),
		BatchNumber:        deref(r.BatchNumber),
		ExpiryDate:         deref(r.ExpiryDate),
		AuthenticityStatus: domain.AuthenticityStatus(deref(r.AuthenticityStatus)),
		Reason:             deref(r.Reason),
	}
}

func (r *prescriptionReadResponse) toDomain() *domain.PrescriptionTranscript {
	medicines := make([]domain.PrescriptionMedicineEntry, 0, len(r.Medicines))
	for _, m := range r.Medicines {
		medicines = append(medicines, domain.PrescriptionMedicineEntry{
			Name:        deref(m.Name),
			Dosage:      deref(m.Dosage),
			Frequency:   deref(m.Frequency),
			Duration:    deref(m.Duration),
			Uses:        deref(m.Uses),
			SideEffects: deref(m.SideEffects),
			Warnings:    deref(m.Warnings),
		})
	}
	return &domain.PrescriptionTranscript{
		RawText:   deref(r.RawText),
		Medicines: medicines,
	}
}
