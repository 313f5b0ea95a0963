package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/capture"
	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/events"
	"github.com/medveritas/medveritas-api/internal/task"
)

// JobRequest describes a background analysis to start.
type JobRequest struct {
	Image      string
	Mode       domain.AnalysisMode
	SessionKey string
}

// JobTracker reads and cancels background analysis jobs.
type JobTracker interface {
	Get(ctx context.Context, id uuid.UUID) (task.JobSnapshot, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// AnalysisService exposes image analysis and the connectivity probe.
type AnalysisService interface {
	// AnalyzeMedicine identifies a medicine package and judges its authenticity.
	AnalyzeMedicine(ctx context.Context, image string) (*domain.MedicineAuthenticityReport, error)

	// ReadPrescription transcribes a handwritten prescription.
	ReadPrescription(ctx context.Context, image string) (*domain.PrescriptionTranscript, error)

	// Analyze runs the analysis selected by mode.
	Analyze(ctx context.Context, image string, mode domain.AnalysisMode) (*domain.AnalysisResult, error)

	// TestConnection reports whether the provider answered a minimal request.
	TestConnection(ctx context.Context) bool

	// SubmitJob starts a background analysis and returns its ID.
	SubmitJob(ctx context.Context, req JobRequest) (uuid.UUID, error)

	// GetJob returns the current state of a background analysis.
	GetJob(ctx context.Context, id uuid.UUID) (task.JobSnapshot, error)

	// CancelJob cancels a background analysis. A finished job is left as is.
	CancelJob(ctx context.Context, id uuid.UUID) error
}

// analysisServiceImpl implements the AnalysisService interface
type analysisServiceImpl struct {
	analyzer     analysis.Analyzer
	eventEmitter events.EventEmitter
	jobs         JobTracker
	logger       *slog.Logger
}

// NewAnalysisService creates a new AnalysisService.
// eventEmitter and jobs may both be nil, in which case background jobs are
// unavailable; passing only one of them is an error.
func NewAnalysisService(
	analyzer analysis.Analyzer,
	eventEmitter events.EventEmitter,
	jobs JobTracker,
	logger *slog.Logger,
) (AnalysisService, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if (eventEmitter == nil) != (jobs == nil) {
		return nil, fmt.Errorf("eventEmitter and jobs must be provided together")
	}

	return &analysisServiceImpl{
		analyzer:     analyzer,
		eventEmitter: eventEmitter,
		jobs:         jobs,
		logger:       logger.With(slog.String("component", "analysis_service")),
	}, nil
}

// AnalyzeMedicine implements AnalysisService.AnalyzeMedicine.
func (s *analysisServiceImpl) AnalyzeMedicine(
	ctx context.Context,
	image string,
) (*domain.MedicineAuthenticityReport, error) {
	if err := requireImage(image); err != nil {
		return nil, err
	}
	report, err := s.analyzer.AnalyzeMedicine(ctx, image)
	if err != nil {
		s.logger.WarnContext(ctx, "medicine scan failed", "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "medicine scan completed", "authenticity_status", report.AuthenticityStatus)
	return report, nil
}

// ReadPrescription implements AnalysisService.ReadPrescription.
func (s *analysisServiceImpl) ReadPrescription(
	ctx context.Context,
	image string,
) (*domain.PrescriptionTranscript, error) {
	if err := requireImage(image); err != nil {
		return nil, err
	}
	transcript, err := s.analyzer.ReadPrescription(ctx, image)
	if err != nil {
		s.logger.WarnContext(ctx, "prescription read failed", "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "prescription read completed", "medicine_count", len(transcript.Medicines))
	return transcript, nil
}

// Analyze implements AnalysisService.Analyze.
func (s *analysisServiceImpl) Analyze(
	ctx context.Context,
	image string,
	mode domain.AnalysisMode,
) (*domain.AnalysisResult, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAnalysisMode, mode)
	}
	if err := requireImage(image); err != nil {
		return nil, err
	}
	result, err := s.analyzer.Analyze(ctx, image, mode)
	if err != nil {
		s.logger.WarnContext(ctx, "analysis failed", "mode", mode, "error", err)
		return nil, err
	}
	return result, nil
}

// TestConnection implements AnalysisService.TestConnection.
func (s *analysisServiceImpl) TestConnection(ctx context.Context) bool {
	connected := s.analyzer.Probe(ctx)
	s.logger.InfoContext(ctx, "connectivity probe finished", "connected", connected)
	return connected
}

// SubmitJob implements AnalysisService.SubmitJob.
func (s *analysisServiceImpl) SubmitJob(ctx context.Context, req JobRequest) (uuid.UUID, error) {
	if s.eventEmitter == nil {
		return uuid.Nil, fmt.Errorf("%w: background analysis is disabled", ErrServiceUnavailable)
	}
	if !req.Mode.IsValid() {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidAnalysisMode, req.Mode)
	}
	if err := requireImage(req.Image); err != nil {
		return uuid.Nil, err
	}

	jobID := uuid.New()
	event, err := events.NewAnalysisRequestedEvent(events.AnalysisRequestPayload{
		JobID:      jobID,
		Mode:       string(req.Mode),
		Image:      req.Image,
		SessionKey: req.SessionKey,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create analysis event: %w", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to submit analysis job", "job_id", jobID, "error", err)
		return uuid.Nil, err
	}

	s.logger.InfoContext(ctx, "analysis job submitted", "job_id", jobID, "mode", req.Mode)
	return jobID, nil
}

// GetJob implements AnalysisService.GetJob.
func (s *analysisServiceImpl) GetJob(ctx context.Context, id uuid.UUID) (task.JobSnapshot, error) {
	if s.jobs == nil {
		return task.JobSnapshot{}, fmt.Errorf("%w: background analysis is disabled", ErrServiceUnavailable)
	}
	return s.jobs.Get(ctx, id)
}

// CancelJob implements AnalysisService.CancelJob.
func (s *analysisServiceImpl) CancelJob(ctx context.Context, id uuid.UUID) error {
	if s.jobs == nil {
		return fmt.Errorf("%w: background analysis is disabled", ErrServiceUnavailable)
	}
	if err := s.jobs.Cancel(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "analysis job cancel requested", "job_id", id)
	return nil
}

func requireImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return capture.ErrNoImage
	}
	return nil
}
