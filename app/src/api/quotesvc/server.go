// Package quotesvc is the reference quote backend the frontend talks to.
package quotesvc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	httpapi "quote-frontend/app/src/api/http"
	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/shared/constants"

	"github.com/go-chi/chi/v5"
)

const maxQuoteBytes = 64 * 1024

// Server serves the backend side of the quote protocol over a QuoteRepository.
type Server struct {
	handler http.Handler
}

type handler struct {
	repo     domain.QuoteRepository
	logger   *infra.Logger
	hostname func() (string, error)
}

// Option customises the backend server.
type Option func(*handler)

// WithHostname overrides how the reported hostname is resolved.
func WithHostname(fn func() (string, error)) Option {
	return func(h *handler) {
		if fn != nil {
			h.hostname = fn
		}
	}
}

func NewServer(repo domain.QuoteRepository, logger *infra.Logger, opts ...Option) *Server {
	h := &handler{repo: repo, logger: logger, hostname: os.Hostname}
	for _, opt := range opts {
		opt(h)
	}

	router := chi.NewRouter()
	router.Use(
		httpapi.RequestID,
		infra.HTTPMiddleware(httpapi.RoutePattern),
		httpapi.AccessLog(logger),
	)

	router.Get(constants.PathLive, h.handleHealth)
	router.Get(constants.PathReady, h.handleHealth)
	router.Get(constants.PathDatabase, h.handleDatabase)
	router.Get(constants.PathQuote, h.handleQuote)
	router.Get(constants.PathQuotes, h.handleQuotes)
	router.Post(constants.PathAddQuote, h.handleAddQuote)
	router.Get(constants.PathHostname, h.handleHostname)

	return &Server{handler: router}
}

func (s *Server) Router() http.Handler { return s.handler }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDatabase reports connectivity as the strings "true"/"false", the
// shape the frontend expects.
func (h *handler) handleDatabase(w http.ResponseWriter, r *http.Request) {
	connected := "true"
	if err := h.repo.Ping(r.Context()); err != nil {
		h.logger.Warnf(r.Context(), "database ping failed: %v", err)
		connected = "false"
	}
	writeJSON(w, http.StatusOK, map[string]string{"db-connected": connected})
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.repo.Random(r.Context())
	switch {
	case errors.Is(err, domain.ErrQuoteNotFound):
		writeText(w, http.StatusNotFound, "no quotes available")
	case err != nil:
		h.logger.Errorf(r.Context(), "select random quote: %v", err)
		writeText(w, http.StatusInternalServerError, "error reading quotes")
	default:
		writeText(w, http.StatusOK, quote)
	}
}

func (h *handler) handleQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.repo.All(r.Context())
	if err != nil {
		h.logger.Errorf(r.Context(), "select quotes: %v", err)
		writeText(w, http.StatusInternalServerError, "error reading quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (h *handler) handleAddQuote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQuoteBytes))
	if err != nil {
		writeText(w, http.StatusBadRequest, domain.PayloadMessage(domain.ErrInvalidPayload))
		return
	}

	quote, err := domain.ParseQuotePayload(body)
	if err != nil {
		writeText(w, http.StatusBadRequest, domain.PayloadMessage(err))
		return
	}

	err = h.repo.Add(r.Context(), quote)
	if errors.Is(err, domain.ErrEmptyQuote) {
		writeText(w, http.StatusBadRequest, domain.PayloadMessage(domain.ErrMissingQuote))
		return
	}
	if err != nil {
		h.logger.Errorf(r.Context(), "insert quote: %v", err)
		writeText(w, http.StatusInternalServerError, "error inserting quote")
		return
	}
	writeText(w, http.StatusOK, "Quote added")
}

func (h *handler) handleHostname(w http.ResponseWriter, r *http.Request) {
	name, err := h.hostname()
	if err != nil {
		h.logger.Warnf(r.Context(), "resolve hostname: %v", err)
		name = "unknown"
	}
	writeJSON(w, http.StatusOK, map[string]string{"backend": name})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
