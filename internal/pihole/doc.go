// Package pihole provides an HTTP client for the Pi-hole v6 API.
//
// It handles session-based authentication (POST /api/auth) and exposes
// typed accessors for the statistics endpoints the exporter scrapes.
// The session is held in process memory only and is renewed by the
// caller when Pi-hole signals expiry.
package pihole
