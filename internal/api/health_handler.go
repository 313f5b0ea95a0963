package api

import (
	"net/http"

	"github.com/medveritas/medveritas-api/internal/api/shared"
)

// HealthHandler returns GET /health. analysisAvailable reports whether a
// provider credential is configured; it does not contact the provider.
func HealthHandler(analysisAvailable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:            "ok",
			AnalysisAvailable: analysisAvailable,
		})
	}
}
