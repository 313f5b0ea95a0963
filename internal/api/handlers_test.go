package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/medveritas/medveritas-api/internal/api/middleware"
	"github.com/medveritas/medveritas-api/internal/service"
)

const testDataURL = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter mounts the handlers on the same paths the server uses.
func newTestRouter(analysisSvc service.AnalysisService, reminderSvc service.ReminderService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(discardLogger()))

	if analysisSvc != nil {
		h := NewAnalysisHandler(analysisSvc, discardLogger())
		r.Post("/api/analyses/medicine", h.ScanMedicine)
		r.Post("/api/analyses/prescription", h.ReadPrescription)
		r.Post("/api/analyses/jobs", h.SubmitJob)
		r.Get("/api/analyses/jobs/{id}", h.GetJob)
		r.Delete("/api/analyses/jobs/{id}", h.CancelJob)
		r.Get("/api/diagnostics/connection", h.TestConnection)
	}
	if reminderSvc != nil {
		h := NewReminderHandler(reminderSvc, discardLogger())
		r.Get("/api/reminders", h.ListReminders)
		r.Post("/api/reminders", h.CreateReminder)
		r.Delete("/api/reminders/{id}", h.DeleteReminder)
		r.Post("/api/reminders/{id}/toggle", h.ToggleReminder)
	}
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doMultipart(
	t *testing.T,
	h http.Handler,
	path string,
	fields map[string]string,
	image []byte,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
