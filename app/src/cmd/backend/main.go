package main

import (
	_ "quote-frontend/app/src/infra/utils/autoload"

	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote-frontend/app/src/api/quotesvc"
	"quote-frontend/app/src/core"
	"quote-frontend/app/src/database"
	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := infra.LoadConfig()
	logger := infra.NewLeveledLogger(os.Stdout, "quote-backend", cfg.LogLevel)
	defer logger.Sync()

	infra.LogConfig(ctx, logger, cfg)
	infra.StartMetricsServer(logger, cfg.MetricsPort)

	repo, cleanup, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf(ctx, "failed to open quote repository: %v", err)
	}
	defer cleanup()

	if cfg.SeedQuotes {
		if err := seedRepository(ctx, repo, core.DefaultQuotes()); err != nil {
			logger.Warnf(ctx, "seeding quotes failed: %v", err)
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           quotesvc.NewServer(repo, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Printf(ctx, "quote backend listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf(ctx, "server error: %v", err)
	}
	logger.Println(ctx, "server stopped")
}

// openRepository prefers Postgres and falls back to an in-memory store when
// no database is configured.
func openRepository(ctx context.Context, cfg infra.Config, logger *infra.Logger) (domain.QuoteRepository, func(), error) {
	if !database.ShouldCheckDatabase(cfg) {
		logger.Warnf(ctx, "no database configured, quotes are kept in memory")
		return database.NewMemoryRepository(), func() {}, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := database.WaitForDatabase(waitCtx, cfg, logger); err != nil {
		return nil, nil, err
	}

	return database.SetupRepository(ctx, cfg, logger)
}

// seedRepository fills an empty store.
func seedRepository(ctx context.Context, repo domain.QuoteRepository, quotes []string) error {
	existing, err := repo.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, quote := range quotes {
		if err := repo.Add(ctx, quote); err != nil {
			return err
		}
	}
	return nil
}
