// Package monitoring provides Prometheus metrics and the gin middleware
// that records per-request HTTP metrics.
package monitoring
