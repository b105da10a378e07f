// Package startup handles process configuration and startup logging for
// the Pi-hole exporter.
//
// Configuration is read from environment variables (optionally seeded
// from a .env file) and frozen into an immutable Config for the process
// lifetime. The package also carries build-time version information and
// the banner/shutdown log helpers used by main.
package startup
