package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/render"
	"github.com/medveritas/medveritas-api/internal/task"
)

// Request payloads

// AnalyzeImageRequest is the JSON body of the synchronous analysis endpoints.
type AnalyzeImageRequest struct {
	// Image is a data URL (data:image/...;base64,...) or raw base64.
	Image string `json:"image" validate:"required"`
}

// SubmitJobRequest is the JSON body of POST /api/analyses/jobs.
type SubmitJobRequest struct {
	Image string `json:"image" validate:"required"`
	Mode  string `json:"mode"  validate:"required,oneof=MEDICINE_SCAN PRESCRIPTION_READ"`

	// SessionKey groups jobs from one client screen. A new job with the same
	// key supersedes the previous one.
	SessionKey string `json:"sessionKey,omitempty" validate:"max=128"`
}

// CreateReminderRequest is the JSON body of POST /api/reminders.
type CreateReminderRequest struct {
	MedicineName string `json:"medicineName" validate:"required,max=200"`
	Dosage       string `json:"dosage"       validate:"max=100"`
	Time         string `json:"time"         validate:"required,datetime=15:04"`
	Frequency    string `json:"frequency"    validate:"max=50"`
}

func (r CreateReminderRequest) toDraft() domain.ReminderDraft {
	return domain.ReminderDraft{
		MedicineName: r.MedicineName,
		Dosage:       r.Dosage,
		Time:         r.Time,
		Frequency:    r.Frequency,
	}
}

// Response payloads

// MedicineScanResponse pairs the typed report with its rendered view.
type MedicineScanResponse struct {
	Mode   domain.AnalysisMode                `json:"mode"`
	Report *domain.MedicineAuthenticityReport `json:"report"`
	View   render.AuthenticityView            `json:"view"`
}

// PrescriptionReadResponse pairs the typed transcript with its rendered view.
type PrescriptionReadResponse struct {
	Mode       domain.AnalysisMode            `json:"mode"`
	Transcript *domain.PrescriptionTranscript `json:"transcript"`
	View       render.PrescriptionView        `json:"view"`
}

// JobAcceptedResponse is returned when a background analysis is queued.
type JobAcceptedResponse struct {
	ID     uuid.UUID       `json:"id"`
	Status task.TaskStatus `json:"status"`
}

// JobResponse describes a background analysis.
type JobResponse struct {
	ID           uuid.UUID                 `json:"id"`
	Mode         domain.AnalysisMode       `json:"mode"`
	Status       task.TaskStatus           `json:"status"`
	SessionKey   string                    `json:"sessionKey,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
	FinishedAt   *time.Time                `json:"finishedAt,omitempty"`
	Medicine     *MedicineScanResponse     `json:"medicine,omitempty"`
	Prescription *PrescriptionReadResponse `json:"prescription,omitempty"`
	Error        string                    `json:"error,omitempty"`
}

// ConnectionResponse is the body of GET /api/diagnostics/connection.
type ConnectionResponse struct {
	Connected bool `json:"connected"`
}

// ReminderListResponse is the body of GET /api/reminders.
type ReminderListResponse struct {
	Reminders []domain.Reminder `json:"reminders"`

	// Warning is set when the persisted collection was unreadable and reset.
	Warning string `json:"warning,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	AnalysisAvailable bool   `json:"analysisAvailable"`
}

func medicineResponse(report *domain.MedicineAuthenticityReport) *MedicineScanResponse {
	return &MedicineScanResponse{
		Mode:   domain.AnalysisModeMedicineScan,
		Report: report,
		View:   render.Authenticity(report),
	}
}

func prescriptionResponse(transcript *domain.PrescriptionTranscript) *PrescriptionReadResponse {
	return &PrescriptionReadResponse{
		Mode:       domain.AnalysisModePrescriptionRead,
		Transcript: transcript,
		View:       render.Prescription(transcript),
	}
}

func jobToResponse(snap task.JobSnapshot) JobResponse {
	resp := JobResponse{
		ID:         snap.ID,
		Mode:       snap.Mode,
		Status:     snap.Status,
		SessionKey: snap.SessionKey,
		CreatedAt:  snap.CreatedAt,
		FinishedAt: snap.FinishedAt,
	}
	if snap.Result != nil {
		if snap.Result.Medicine != nil {
			resp.Medicine = medicineResponse(snap.Result.Medicine)
		}
		if snap.Result.Prescription != nil {
			resp.Prescription = prescriptionResponse(snap.Result.Prescription)
		}
	}
	if snap.Status == task.TaskStatusFailed && snap.Err != nil {
		resp.Error = GetSafeErrorMessage(snap.Err)
	}
	return resp
}
