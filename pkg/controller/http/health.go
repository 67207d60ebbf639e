package http

import (
	"net/http"

	"github.com/m-mizutani/dydl/pkg/domain/model"
	"github.com/m-mizutani/dydl/pkg/domain/types"
)

// handleRoot reports that the API is up
func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, &model.RootStatus{
		Status:  "ok",
		Message: "Douyin Downloader API is running.",
	})
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, &model.HealthStatus{
		Status:  "healthy",
		Service: "dydl",
		Version: types.Version,
	})
}
