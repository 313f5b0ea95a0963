package mocks

import (
	"context"
	"sync"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/domain"
)

// MockAnalyzer implements analysis.Analyzer for testing
type MockAnalyzer struct {
	// Function fields let test cases override each operation
	AnalyzeMedicineFn  func(ctx context.Context, image string) (*domain.MedicineAuthenticityReport, error)
	ReadPrescriptionFn func(ctx context.Context, image string) (*domain.PrescriptionTranscript, error)
	AnalyzeFn          func(ctx context.Context, image string, mode domain.AnalysisMode) (*domain.AnalysisResult, error)
	ProbeFn            func(ctx context.Context) bool

	// Default response values
	Report     *domain.MedicineAuthenticityReport
	Transcript *domain.PrescriptionTranscript
	Err        error
	Connected  bool

	// Call tracking for verification
	Calls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Analyze counts image analyses of either mode
		Analyze int

		// Probe counts connectivity probes
		Probe int

		// Modes contains the mode of every analysis, in call order
		Modes []domain.AnalysisMode
	}
}

var _ analysis.Analyzer = (*MockAnalyzer)(nil)

func (m *MockAnalyzer) trackAnalyze(mode domain.AnalysisMode) {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	m.Calls.Analyze++
	m.Calls.Modes = append(m.Calls.Modes, mode)
}

// AnalyzeMedicine implements analysis.Analyzer
func (m *MockAnalyzer) AnalyzeMedicine(ctx context.Context, image string) (*domain.MedicineAuthenticityReport, error) {
	m.trackAnalyze(domain.AnalysisModeMedicineScan)
	if m.AnalyzeMedicineFn != nil {
		return m.AnalyzeMedicineFn(ctx, image)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Report, nil
}

// ReadPrescription implements analysis.Analyzer
func (m *MockAnalyzer) ReadPrescription(ctx context.Context, image string) (*domain.PrescriptionTranscript, error) {
	m.trackAnalyze(domain.AnalysisModePrescriptionRead)
	if m.ReadPrescriptionFn != nil {
		return m.ReadPrescriptionFn(ctx, image)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Transcript, nil
}

// Analyze implements analysis.Analyzer. Without AnalyzeFn it dispatches to
// the per-mode methods, so their function fields apply.
func (m *MockAnalyzer) Analyze(
	ctx context.Context,
	image string,
	mode domain.AnalysisMode,
) (*domain.AnalysisResult, error) {
	if m.AnalyzeFn != nil {
		m.trackAnalyze(mode)
		return m.AnalyzeFn(ctx, image, mode)
	}

	switch mode {
	case domain.AnalysisModeMedicineScan:
		report, err := m.AnalyzeMedicine(ctx, image)
		if err != nil {
			return nil, err
		}
		return &domain.AnalysisResult{Mode: mode, Medicine: report}, nil
	case domain.AnalysisModePrescriptionRead:
		transcript, err := m.ReadPrescription(ctx, image)
		if err != nil {
			return nil, err
		}
		return &domain.AnalysisResult{Mode: mode, Prescription: transcript}, nil
	default:
		return nil, domain.ErrInvalidAnalysisMode
	}
}

// Probe implements analysis.Analyzer
func (m *MockAnalyzer) Probe(ctx context.Context) bool {
	m.Calls.mu.Lock()
	m.Calls.Probe++
	m.Calls.mu.Unlock()

	if m.ProbeFn != nil {
		return m.ProbeFn(ctx)
	}
	return m.Connected
}

// AnalyzeCount returns the number of analyses performed so far.
func (m *MockAnalyzer) AnalyzeCount() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return m.Calls.Analyze
}

// NewMockAnalyzerWithReport creates a MockAnalyzer that returns report for medicine scans
func NewMockAnalyzerWithReport(report *domain.MedicineAuthenticityReport) *MockAnalyzer {
	return &MockAnalyzer{Report: report, Connected: true}
}

// NewMockAnalyzerWithTranscript creates a MockAnalyzer that returns transcript for prescription reads
func NewMockAnalyzerWithTranscript(transcript *domain.PrescriptionTranscript) *MockAnalyzer {
	return &MockAnalyzer{Transcript: transcript, Connected: true}
}

// NewMockAnalyzerWithError creates a MockAnalyzer whose analyses fail with err
func NewMockAnalyzerWithError(err error) *MockAnalyzer {
	return &MockAnalyzer{Err: err}
}

// SampleReport returns a plausible medicine scan result.
func SampleReport() *domain.MedicineAuthenticityReport {
	return &domain.MedicineAuthenticityReport{
		BrandName:          "Crocin Advance",
		SaltComposition:    "Paracetamol 500mg",
		Manufacturer:       "GlaxoSmithKline",
		BatchNumber:        "CR2401",
		ExpiryDate:         "08/2027",
		AuthenticityStatus: domain.AuthenticityLikelyAuthentic,
		Reason:             "Print quality and batch details are consistent.",
	}
}

// SampleTranscript returns a plausible prescription read result.
func SampleTranscript() *domain.PrescriptionTranscript {
	return &domain.PrescriptionTranscript{
		RawText: "Tab Amoxil 500mg 1-0-1 x 5 days",
		Medicines: []domain.PrescriptionMedicineEntry{
			{Name: "Amoxil", Dosage: "500mg", Frequency: "1-0-1", Duration: "5 days"},
		},
	}
}
