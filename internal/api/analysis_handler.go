package api

import (
	"log/slog"
	"net/http"

	"github.com/medveritas/medveritas-api/internal/api/shared"
	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/platform/logger"
	"github.com/medveritas/medveritas-api/internal/service"
	"github.com/medveritas/medveritas-api/internal/task"
)

// AnalysisHandler handles image analysis, background job and diagnostics requests
type AnalysisHandler struct {
	analysisService service.AnalysisService
	logger          *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService service.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	if analysisService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("analysisService cannot be nil for AnalysisHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AnalysisHandler")
	}

	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger.With(slog.String("component", "analysis_handler")),
	}
}

// ScanMedicine handles POST /api/analyses/medicine requests.
// The provider call is bound to the request context, so a client that
// disconnects aborts it.
func (h *AnalysisHandler) ScanMedicine(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	image, err := decodeAnalyzeRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	report, err := h.analysisService.AnalyzeMedicine(r.Context(), image)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to analyze image")
		return
	}

	log.Debug("medicine scan succeeded", slog.String("authenticity_status", string(report.AuthenticityStatus)))
	shared.RespondWithJSON(w, r, http.StatusOK, medicineResponse(report))
}

// ReadPrescription handles POST /api/analyses/prescription requests.
func (h *AnalysisHandler) ReadPrescription(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	image, err := decodeAnalyzeRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	transcript, err := h.analysisService.ReadPrescription(r.Context(), image)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to analyze image")
		return
	}

	log.Debug("prescription read succeeded", slog.Int("medicine_count", len(transcript.Medicines)))
	shared.RespondWithJSON(w, r, http.StatusOK, prescriptionResponse(transcript))
}

// SubmitJob handles POST /api/analyses/jobs requests.
// It responds with 202 Accepted and a Location header for polling.
func (h *AnalysisHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSubmitJobRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	mode, err := domain.ParseAnalysisMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	id, err := h.analysisService.SubmitJob(r.Context(), service.JobRequest{
		Image:      req.Image,
		Mode:       mode,
		SessionKey: req.SessionKey,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start analysis")
		return
	}

	w.Header().Set("Location", "/api/analyses/jobs/"+id.String())
	shared.RespondWithJSON(w, r, http.StatusAccepted, JobAcceptedResponse{
		ID:     id,
		Status: task.TaskStatusPending,
	})
}

// GetJob handles GET /api/analyses/jobs/{id} requests.
func (h *AnalysisHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid job ID", err)
		return
	}

	snap, err := h.analysisService.GetJob(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get analysis job")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(snap))
}

// CancelJob handles DELETE /api/analyses/jobs/{id} requests.
// Cancelling a finished job succeeds and leaves its result in place.
func (h *AnalysisHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid job ID", err)
		return
	}

	if err := h.analysisService.CancelJob(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to cancel analysis job")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TestConnection handles GET /api/diagnostics/connection requests.
// Failures are reported as connected=false, never as an error status.
func (h *AnalysisHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	connected := h.analysisService.TestConnection(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, ConnectionResponse{Connected: connected})
}
