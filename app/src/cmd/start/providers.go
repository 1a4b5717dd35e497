package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	grpcapi "quote-frontend/app/src/api/grpc"
	httpapi "quote-frontend/app/src/api/http"
	"quote-frontend/app/src/backend"
	"quote-frontend/app/src/core"
	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"

	"google.golang.org/grpc"
)

func provideConfig() infra.Config {
	return infra.LoadConfig()
}

func provideServiceName() string {
	return "quote-frontend"
}

func provideLogger(out io.Writer, serviceName string, cfg infra.Config) *infra.Logger {
	return infra.NewLeveledLogger(out, serviceName, cfg.LogLevel)
}

func provideHealthReporter(logger *infra.Logger) *grpcapi.HealthReporter {
	return grpcapi.NewHealthReporter(logger)
}

func provideGRPCServer(logger *infra.Logger, reporter *grpcapi.HealthReporter) *grpc.Server {
	return grpcapi.NewServer(logger, reporter)
}

func provideBackend(cfg infra.Config, logger *infra.Logger, reporter *grpcapi.HealthReporter) domain.Backend {
	return backend.NewClient(
		backend.Config{BaseURL: cfg.BackendURL(), Timeout: cfg.BackendTimeout()},
		logger,
		backend.WithProbeObserver(reporter),
	)
}

func provideFallbackQuotes(ctx context.Context, cfg infra.Config, logger *infra.Logger) ([]string, error) {
	quotes, err := core.ResolveFallbackQuotes(cfg.FallbackQuotesFile)
	if err != nil {
		return nil, err
	}
	logger.Printf(ctx, "loaded %d fallback quotes", len(quotes))
	return quotes, nil
}

func provideRelay(cfg infra.Config, backendClient domain.Backend, fallback []string, logger *infra.Logger) domain.RelayService {
	return core.NewRelay(core.RelayConfig{
		Backend:    backendClient,
		Fallback:   fallback,
		Standalone: cfg.NotRunningInKubernetes,
	}, logger)
}

func provideHTTPServer(cfg infra.Config, service domain.RelayService, logger *infra.Logger) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           httpapi.NewServer(service, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
