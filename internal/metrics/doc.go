// Package metrics provides the exporter's own Prometheus instrumentation.
//
// These metrics describe the exporter process (scrape outcomes, HTTP
// traffic, build info), not the Pi-hole statistics it republishes. All
// names are prefixed with "pihole_exporter_" to keep them apart from the
// pihole_* families built per scrape.
//
// Everything registers on the package-owned [Registry] rather than the
// client_golang default registry, so the /metrics output contains exactly
// the families the exporter chooses to publish.
package metrics
