package domain

import "context"

// AvailabilityProber answers whether the backend, and the database behind it,
// should be used for the current request.
type AvailabilityProber interface {
	Configured() bool
	Probe(ctx context.Context) CallResult
	DatabaseStatus(ctx context.Context) (bool, CallResult)
}

// QuoteStore is the remote quote service.
type QuoteStore interface {
	FetchOne(ctx context.Context) (string, CallResult)
	FetchAll(ctx context.Context) ([]string, CallResult)
	Submit(ctx context.Context, payload []byte) SubmitResult
	Hostname(ctx context.Context) (string, CallResult)
}

// Backend combines the prober and the store; the HTTP client implements both.
type Backend interface {
	AvailabilityProber
	QuoteStore
}

// ProbeObserver is notified of every availability probe.
type ProbeObserver interface {
	ObserveProbe(result CallResult)
}

// RelayService describes the behaviour exposed to the frontend transport.
type RelayService interface {
	Index(ctx context.Context) IndexView
	RandomQuote(ctx context.Context) string
	Quotes(ctx context.Context) []string
	AddQuote(ctx context.Context, body []byte) AddQuoteResult
	Hostnames(ctx context.Context) Hostnames
}

// QuoteRepository is the durable store behind the reference backend.
type QuoteRepository interface {
	Add(ctx context.Context, quote string) error
	All(ctx context.Context) ([]string, error)
	Random(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}
