package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/capture"
	"github.com/medveritas/medveritas-api/internal/config"
	"github.com/medveritas/medveritas-api/internal/domain"
)

// imageMIMEType is declared for every inline image regardless of the
// original format.
const imageMIMEType = "image/jpeg"

// contentGenerator is the subset of *genai.Models used by the analyzer.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer implements the analysis.Analyzer interface using
// Google's Gemini API.
type GeminiAnalyzer struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// generator issues the provider calls; nil when no API key is configured
	generator contentGenerator

	// validate checks decoded provider payloads
	validate *validator.Validate

	// model is the name of the Gemini model to use
	model string
}

var _ analysis.Analyzer = (*GeminiAnalyzer)(nil)

// Option configures a GeminiAnalyzer.
type Option func(*GeminiAnalyzer)

// WithContentGenerator replaces the Gemini client, mainly for tests.
func WithContentGenerator(g contentGenerator) Option {
	return func(a *GeminiAnalyzer) {
		a.generator = g
	}
}

// NewGeminiAnalyzer creates a new GeminiAnalyzer.
//
// A missing API key is not an error here: the analyzer is still built and
// every analysis fails with analysis.ErrMissingCredential before any network
// attempt, while Probe reports false.
func NewGeminiAnalyzer(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	opts ...Option,
) (*GeminiAnalyzer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("model name cannot be empty")
	}

	a := &GeminiAnalyzer{
		logger:   logger.With("component", "gemini_analyzer"),
		config:   cfg,
		validate: newResponseValidator(),
		model:    cfg.ModelName,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.generator == nil && cfg.HasCredential() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		a.generator = client.Models
	}

	if !cfg.HasCredential() {
		a.logger.WarnContext(ctx, "Gemini API key is not configured; analysis requests will fail")
	}

	return a, nil
}

// AnalyzeMedicine runs a medicine scan over image.
func (a *GeminiAnalyzer) AnalyzeMedicine(
	ctx context.Context,
	image string,
) (*domain.MedicineAuthenticityReport, error) {
	text, err := a.generateForImage(ctx, image, domain.AnalysisModeMedicineScan)
	if err != nil {
		return nil, err
	}

	var resp medicineScanResponse
	if err := decodeResponse(a.validate, text, &resp); err != nil {
		a.logger.ErrorContext(ctx, "Rejected medicine scan response",
			"error", err, "response_length", len(text))
		return nil, err
	}
	return resp.toDomain(), nil
}

// ReadPrescription transcribes the prescription in image.
func (a *GeminiAnalyzer) ReadPrescription(
	ctx context.Context,
	image string,
) (*domain.PrescriptionTranscript, error) {
	text, err := a.generateForImage(ctx, image, domain.AnalysisModePrescriptionRead)
	if err != nil {
		return nil, err
	}

	var resp prescriptionReadResponse
	if err := decodeResponse(a.validate, text, &resp); err != nil {
		a.logger.ErrorContext(ctx, "Rejected prescription response",
			"error", err, "response_length", len(text))
		return nil, err
	}
	return resp.toDomain(), nil
}

// Analyze dispatches to AnalyzeMedicine or ReadPrescription according to mode.
func (a *GeminiAnalyzer) Analyze(
	ctx context.Context,
	image string,
	mode domain.AnalysisMode,
) (*domain.AnalysisResult, error) {
	switch mode {
	case domain.AnalysisModeMedicineScan:
		report, err := a.AnalyzeMedicine(ctx, image)
		if err != nil {
			return nil, err
		}
		return &domain.AnalysisResult{Mode: mode, Medicine: report}, nil
	case domain.AnalysisModePrescriptionRead:
		transcript, err := a.ReadPrescription(ctx, image)
		if err != nil {
			return nil, err
		}
		return &domain.AnalysisResult{Mode: mode, Prescription: transcript}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAnalysisMode, mode)
	}
}

// Probe sends a fixed text-only request and reports whether any text came back.
func (a *GeminiAnalyzer) Probe(ctx context.Context) bool {
	if !a.config.HasCredential() || a.generator == nil {
		a.logger.WarnContext(ctx, "Gemini connection probe skipped", "error", analysis.ErrMissingCredential)
		return false
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.generator.GenerateContent(ctx, a.model, genai.Text(probePrompt), nil)
	if err != nil {
		a.logger.WarnContext(ctx, "Gemini connection probe failed", "error", err)
		return false
	}

	text, _ := responseText(resp)
	return text != ""
}

// generateForImage performs exactly one provider call for image in mode and
// returns the raw response text.
func (a *GeminiAnalyzer) generateForImage(
	ctx context.Context,
	image string,
	mode domain.AnalysisMode,
) (string, error) {
	if !a.config.HasCredential() || a.generator == nil {
		return "", analysis.ErrMissingCredential
	}

	data, err := capture.Decode(image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrInvalidImage, err)
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: promptFor(mode)},
			{InlineData: &genai.Blob{MIMEType: imageMIMEType, Data: data}},
		},
	}}
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schemaFor(mode),
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	a.logger.DebugContext(ctx, "Making Gemini API call",
		"mode", mode, "model", a.model, "image_bytes", len(data))

	resp, err := a.generator.GenerateContent(ctx, a.model, contents, genCfg)
	if err != nil {
		a.logger.ErrorContext(ctx, "Gemini API call failed",
			"mode", mode, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: %v", analysis.ErrTransport, err)
	}

	text, err := responseText(resp)
	if err != nil {
		a.logger.ErrorContext(ctx, "Unusable Gemini response", "mode", mode, "error", err)
		return "", err
	}

	a.logger.DebugContext(ctx, "Gemini API call succeeded",
		"mode", mode, "response_length", len(text), "duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

func (a *GeminiAnalyzer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeoutSeconds > 0 {
		return context.WithTimeout(ctx, time.Duration(a.config.RequestTimeoutSeconds)*time.Second)
	}
	return context.WithCancel(ctx)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", analysis.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", analysis.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", analysis.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", analysis.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty candidate", analysis.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
