package handlers

import "net/http"

// HealthCheck signals process liveness. It never contacts Pi-hole and
// never touches the scrape path, so it stays responsive while a slow
// scrape is in flight.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte("OK\n"))
	}
}
