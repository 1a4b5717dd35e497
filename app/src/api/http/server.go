package httpapi

import (
	"net/http"
	"time"

	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/shared/constants"

	"github.com/go-chi/chi/v5"
)

// Server exposes the HTTP transport for the quote frontend.
type Server struct {
	handler http.Handler
}

// NewServer constructs an HTTP server that forwards requests to the relay service.
func NewServer(service domain.RelayService, logger *infra.Logger) *Server {
	router := chi.NewRouter()
	router.Use(
		RequestID,
		infra.HTTPMiddleware(RoutePattern),
		AccessLog(logger),
	)

	handler := &handler{service: service, logger: logger}
	registerRoutes(router, handler)

	return &Server{handler: router}
}

// Router returns the configured HTTP handler for reuse in tests or external HTTP servers.
func (s *Server) Router() http.Handler {
	return s.handler
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// RoutePattern labels metrics with the matched chi pattern instead of the raw path.
func RoutePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// RequestID attaches a correlation id to the request context and response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := constants.RequestID(r.Header.Get(constants.RequestIDHeader))
		w.Header().Set(constants.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(infra.WithCorrelationID(r.Context(), id)))
	})
}

// AccessLog writes one line per request.
func AccessLog(logger *infra.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			logger.Printf(r.Context(), "%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
