package infra

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// HTTP metrics
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"path"})
	HttpRequestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_request_errors_total",
		Help: "Total number of HTTP request errors",
	}, []string{"path"})
	ProcessingDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontend_request_duration_seconds",
		Help:    "Duration of request processing in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// Backend client metrics
	BackendCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontend_backend_calls_total",
		Help: "Total number of calls to the quote backend by operation and outcome",
	}, []string{"operation", "outcome"})
	BackendCallDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "frontend_backend_call_duration_seconds",
		Help:    "Duration of calls to the quote backend in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2},
	}, []string{"operation"})

	// Relay metrics
	FallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontend_fallback_total",
		Help: "Total number of responses served from the static fallback list",
	}, []string{"route"})

	registerOnce      sync.Once
	metricsServerOnce sync.Once
)

func init() {
	InitMetrics()
}

// InitMetrics registers all Prometheus collectors used by the application.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpRequestsTotal,
			HttpRequestErrorsTotal,
			ProcessingDurationSeconds,
			BackendCallsTotal,
			BackendCallDurationSeconds,
			FallbackTotal,
		)
	})
}

// Handler returns an HTTP handler that exposes the registered Prometheus metrics.
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// StartMetricsServer exposes Prometheus metrics on :port/metrics and returns the
// started server. An empty port disables it and returns nil; later calls after
// a successful start return nil as well.
func StartMetricsServer(logger *Logger, port string) *http.Server {
	InitMetrics()
	if port == "" {
		return nil
	}
	var started *http.Server
	metricsServerOnce.Do(func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				if logger != nil {
					logger.Errorf(context.Background(), "metrics server error: %v", err)
				}
			}
		}()
		started = server
	})
	return started
}

// HTTPMiddleware instruments HTTP handlers with request/latency metrics.
// The path is resolved after the handler ran so routers can report the matched pattern.
func HTTPMiddleware(pathResolver func(*http.Request) string) func(http.Handler) http.Handler {
	InitMetrics()
	if pathResolver == nil {
		pathResolver = func(r *http.Request) string {
			if r == nil {
				return "unknown"
			}
			return r.URL.Path
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil {
				HttpRequestErrorsTotal.WithLabelValues("unknown").Inc()
				http.Error(w, "invalid request", http.StatusBadRequest)
				return
			}

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			defer func() {
				duration := time.Since(start)
				path := pathResolver(r)
				ProcessingDurationSeconds.Observe(duration.Seconds())
				HttpRequestsTotal.WithLabelValues(path).Inc()

				if recorder.Status() >= http.StatusBadRequest {
					HttpRequestErrorsTotal.WithLabelValues(path).Inc()
				}
			}()

			next.ServeHTTP(recorder, r)
		})
	}
}

// GRPCUnaryInterceptor instruments gRPC unary handlers with request/latency metrics.
func GRPCUnaryInterceptor() grpc.UnaryServerInterceptor {
	InitMetrics()
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()

		defer func() {
			duration := time.Since(start)
			ProcessingDurationSeconds.Observe(duration.Seconds())
			HttpRequestsTotal.WithLabelValues(info.FullMethod).Inc()

			if status.Code(err) != codes.OK {
				HttpRequestErrorsTotal.WithLabelValues(info.FullMethod).Inc()
			}
		}()

		return handler(ctx, req)
	}
}

// RecordBackendCall tracks one call to the quote backend.
func RecordBackendCall(operation, outcome string, duration time.Duration) {
	InitMetrics()
	if duration < 0 {
		duration = 0
	}
	BackendCallsTotal.WithLabelValues(operation, outcome).Inc()
	BackendCallDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncFallback counts a response served from the fallback list.
func IncFallback(route string) {
	InitMetrics()
	FallbackTotal.WithLabelValues(route).Inc()
}

// statusRecorder captures the response status code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Status() int {
	return r.status
}
