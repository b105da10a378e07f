package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pihole-exporter/internal/collector"
	"pihole-exporter/internal/handlers"
	"pihole-exporter/internal/logging"
	"pihole-exporter/internal/metrics"
	"pihole-exporter/internal/middleware"
	"pihole-exporter/internal/pihole"
	"pihole-exporter/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.SetBuildInfo(startup.Version, startup.Commit, startup.GoVersion)

	// Initialize Pi-hole client and scrape coordinator
	client := pihole.New(pihole.ClientConfig{
		Host:     config.PiholeHost,
		TLS:      config.PiholeTLS,
		Password: config.PiholePassword,
		Timeout:  config.PiholeTimeout,
	})
	scraper := collector.NewScraper(client, config.UpstreamStats)

	// Initialize handlers
	h := handlers.New(scraper)

	// Setup router
	router := setupRouter(h)

	// Apply metrics middleware
	instrumented := middleware.Metrics()(router)

	// Apply logging middleware
	loggingConfig := middleware.LoggingConfig{LogHealthChecks: config.LogHealthChecks}
	handler := middleware.Logger(loggingConfig)(instrumented)

	addr := net.JoinHostPort(config.BindHost, config.BindPort)

	// Create server. The write timeout leaves headroom above the Pi-hole
	// timeout so a slow upstream surfaces as a scrape error, not a cut
	// connection.
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.PiholeTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv)

	// Start server
	startup.LogServerStarted(addr, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/metrics", h.Metrics).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/livez", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	return r
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	startup.LogShutdownComplete()
}
