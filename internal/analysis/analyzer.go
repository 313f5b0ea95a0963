package analysis

import (
	"context"

	"github.com/medveritas/medveritas-api/internal/domain"
)

// Analyzer submits images to the AI provider and returns validated, typed results.
type Analyzer interface {
	// AnalyzeMedicine runs a medicine scan on a data URL (or raw base64) image.
	AnalyzeMedicine(ctx context.Context, image string) (*domain.MedicineAuthenticityReport, error)

	// ReadPrescription transcribes a handwritten prescription image.
	ReadPrescription(ctx context.Context, image string) (*domain.PrescriptionTranscript, error)

	// Analyze dispatches to the operation bound to mode.
	Analyze(ctx context.Context, image string, mode domain.AnalysisMode) (*domain.AnalysisResult, error)

	// Probe issues a minimal request and reports whether a non-empty
	// response came back. All failure detail is discarded.
	Probe(ctx context.Context) bool
}
