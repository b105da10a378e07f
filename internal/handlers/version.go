package handlers

import (
	"encoding/json"
	"net/http"

	"pihole-exporter/internal/logging"
	"pihole-exporter/internal/startup"
)

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(startup.GetBuildInfo()); err != nil {
		logging.Error("failed to encode version response: %v", err)
	}
}
