package grpcapi

import (
	"context"
	"time"

	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/shared/constants"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// BackendService is the health service name that follows backend availability.
const BackendService = constants.GRPCBackendSvc

// NewServer constructs a gRPC server exposing the standard health service.
// The overall ("") status is always SERVING; BackendService mirrors the last
// availability probe seen by reporter.
func NewServer(logger *infra.Logger, reporter *HealthReporter) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{
		loggingInterceptor(logger),
		infra.GRPCUnaryInterceptor(),
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	healthpb.RegisterHealthServer(server, reporter.health)
	return server
}

// HealthReporter translates availability probes into gRPC health statuses.
type HealthReporter struct {
	health *health.Server
	logger *infra.Logger
}

func NewHealthReporter(logger *infra.Logger) *HealthReporter {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(BackendService, healthpb.HealthCheckResponse_UNKNOWN)
	return &HealthReporter{health: hs, logger: logger}
}

var _ domain.ProbeObserver = (*HealthReporter)(nil)

// ObserveProbe records the outcome of one availability probe.
func (r *HealthReporter) ObserveProbe(result domain.CallResult) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if result.OK() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	r.health.SetServingStatus(BackendService, status)
}

// Check exposes the health server for in-process callers.
func (r *HealthReporter) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := r.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Shutdown marks every service NOT_SERVING so watchers drain before the server stops.
func (r *HealthReporter) Shutdown() {
	r.health.Shutdown()
}

func loggingInterceptor(logger *infra.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)
		if err != nil {
			logger.Warnf(ctx, "gRPC %s failed in %s: %v", info.FullMethod, duration, err)
		} else {
			logger.Debugf(ctx, "gRPC %s completed in %s", info.FullMethod, duration)
		}
		return resp, err
	}
}
