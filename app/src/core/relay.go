package core

import (
	"context"
	"math/rand"
	"net/http"
	"os"

	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/infra/utils"
	"quote-frontend/app/src/shared/constants"
)

const (
	msgQuoteReceived = "Quote received"
	msgInsertError   = "error inserting quote"
)

// RelayConfig holds the collaborators of a Relay. Zero-valued optional fields
// get process defaults.
type RelayConfig struct {
	Backend    domain.Backend
	Fallback   []string
	Standalone bool
	Hostname   func() (string, error)
	Pick       func(n int) int
}

// Relay answers every frontend route by preferring the backend and falling
// back to a fixed quote list. It keeps no state between requests.
type Relay struct {
	backend    domain.Backend
	fallback   []string
	standalone bool
	hostname   func() (string, error)
	pick       func(n int) int
	logger     Logger
}

func NewRelay(cfg RelayConfig, logger Logger) *Relay {
	r := &Relay{
		backend:    cfg.Backend,
		fallback:   cfg.Fallback,
		standalone: cfg.Standalone,
		hostname:   cfg.Hostname,
		pick:       cfg.Pick,
		logger:     logger,
	}
	if r.fallback == nil {
		r.fallback = DefaultQuotes()
	}
	if r.hostname == nil {
		r.hostname = os.Hostname
	}
	if r.pick == nil {
		r.pick = rand.Intn
	}
	return r
}

var _ domain.RelayService = (*Relay)(nil)

// Index gathers the page model. The database is only asked about when the
// backend itself is available.
func (r *Relay) Index(ctx context.Context) domain.IndexView {
	view := domain.IndexView{Standalone: r.standalone}

	view.Backend = r.available(ctx)
	if view.Backend {
		view.Database = r.databaseAvailable(ctx)
		view.Quotes = r.backendQuotes(ctx, constants.PathIndex)
	} else {
		infra.IncFallback(constants.PathIndex)
		view.Quotes = r.fallbackQuotes()
	}

	view.Hostnames = r.hostnames(ctx, view.Backend)
	return view
}

// RandomQuote returns a backend quote, or a random fallback quote when the
// backend is unavailable or fails to answer.
func (r *Relay) RandomQuote(ctx context.Context) string {
	if r.available(ctx) {
		quote, result := r.backend.FetchOne(ctx)
		if result.OK() {
			return quote
		}
		r.logger.Errorf(ctx, "did not get a quote from backend: %v", result.Err)
	}

	infra.IncFallback(constants.PathRandom)
	if len(r.fallback) == 0 {
		return ""
	}
	return r.fallback[r.pick(len(r.fallback))]
}

// Quotes returns every quote the frontend can currently serve.
func (r *Relay) Quotes(ctx context.Context) []string {
	if r.available(ctx) {
		return r.backendQuotes(ctx, constants.PathQuotes)
	}
	infra.IncFallback(constants.PathQuotes)
	return r.fallbackQuotes()
}

// AddQuote validates the body and forwards it verbatim. Validation failures
// never reach the network.
func (r *Relay) AddQuote(ctx context.Context, body []byte) domain.AddQuoteResult {
	r.logger.Println(ctx, "attempting to add new quote to backend ...")

	if _, err := domain.ParseQuotePayload(body); err != nil {
		r.logger.Errorf(ctx, "rejecting add-quote body: %v", err)
		return domain.AddQuoteResult{Status: http.StatusInternalServerError, Message: domain.PayloadMessage(err)}
	}

	if r.backend == nil {
		r.logger.Errorf(ctx, "no backend to post quote to")
		return domain.AddQuoteResult{Status: http.StatusInternalServerError, Message: msgInsertError}
	}

	result := r.backend.Submit(ctx, body)
	if !result.OK() {
		r.logger.Errorf(ctx, "could not post new quote to backend (status %d, message %q): %v",
			result.StatusCode, result.Message, result.Err)
		return domain.AddQuoteResult{Status: http.StatusInternalServerError, Message: msgInsertError}
	}

	r.logger.Println(ctx, "new quote successfully posted to backend.")
	return domain.AddQuoteResult{Status: http.StatusOK, Message: msgQuoteReceived}
}

// Hostnames reports the frontend hostname and, when reachable, the backend's.
func (r *Relay) Hostnames(ctx context.Context) domain.Hostnames {
	return r.hostnames(ctx, r.available(ctx))
}

func (r *Relay) hostnames(ctx context.Context, backendAvailable bool) domain.Hostnames {
	frontend, err := r.hostname()
	if err != nil {
		r.logger.Warnf(ctx, "could not resolve frontend hostname: %v", err)
		frontend = "unknown"
	}

	names := domain.Hostnames{Frontend: frontend}
	if !backendAvailable {
		return names
	}

	backend, result := r.backend.Hostname(ctx)
	if !result.OK() {
		r.logger.Errorf(ctx, "encountered an error trying to get hostname from backend: %v", result.Err)
		return names
	}
	names.Backend = utils.Ptr(backend)
	return names
}

// available probes on every call, including an unconfigured backend, so probe
// observers always see the outcome. The client answers those without I/O.
func (r *Relay) available(ctx context.Context) bool {
	if r.backend == nil {
		return false
	}
	return r.backend.Probe(ctx).OK()
}

func (r *Relay) databaseAvailable(ctx context.Context) bool {
	connected, result := r.backend.DatabaseStatus(ctx)
	if !result.OK() {
		return false
	}
	return connected
}

func (r *Relay) backendQuotes(ctx context.Context, route string) []string {
	quotes, result := r.backend.FetchAll(ctx)
	if result.OK() {
		return quotes
	}
	r.logger.Errorf(ctx, "did not get quotes from backend: %v", result.Err)
	infra.IncFallback(route)
	return r.fallbackQuotes()
}

func (r *Relay) fallbackQuotes() []string {
	return append([]string{}, r.fallback...)
}
