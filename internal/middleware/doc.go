// Package middleware provides HTTP middleware for the exporter server:
// request logging and Prometheus self-instrumentation.
package middleware
