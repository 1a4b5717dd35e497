package constants

import "time"

const (
	// TimeFormat defines the canonical timestamp format used across transports.
	TimeFormat = time.RFC3339Nano

	// BackendTimeout bounds every outbound call to the quote backend.
	BackendTimeout = time.Second

	// RequestIDHeader carries the correlation id between frontend, backend and clients.
	RequestIDHeader = "X-Request-ID"
)

// Paths served by the quote backend.
const (
	PathReady      = "/healthz/ready"
	PathLive       = "/healthz/live"
	PathDatabase   = "/check-db-connection"
	PathQuote      = "/quote"
	PathQuotes     = "/quotes"
	PathAddQuote   = "/add-quote"
	PathHostname   = "/hostname"
	PathIndex      = "/"
	PathRandom     = "/random-quote"
	PathMetrics    = "/metrics"
	GRPCBackendSvc = "quotes.backend"
)
