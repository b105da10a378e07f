package handlers

import (
	"net/http"

	"pihole-exporter/internal/collector"
	"pihole-exporter/internal/logging"
)

// contentTypeExposition is the standard Prometheus text exposition
// content type.
const contentTypeExposition = "text/plain; version=0.0.4; charset=utf-8"

// Metrics triggers one scrape of Pi-hole and responds with the rendered
// exposition text. A failed scrape yields a non-200 response with a short
// diagnostic; stale or partial metrics are never served.
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	text, err := h.scraper.Scrape(r.Context())
	if err != nil {
		logging.Error("Metrics request failed: %v", err)
		status := http.StatusBadGateway
		if collector.IsRenderError(err) {
			status = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", contentTypeExposition)
	if _, err := w.Write([]byte(text)); err != nil {
		logging.Error("Failed to write metrics response: %v", err)
	}
}
