// Package handlers provides the exporter's HTTP request handlers.
//
// It includes handlers for:
//   - Prometheus metrics (triggers a Pi-hole scrape)
//   - Health and liveness checks
//   - Version and build information
package handlers
