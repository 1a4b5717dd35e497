package main

import (
	_ "quote-frontend/app/src/infra/utils/autoload"

	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote-frontend/app/src/database"
	"quote-frontend/app/src/infra"
)

func main() {
	cfg, logger := initEnvironment()
	defer logger.Sync()

	migrationsDir := flag.String("dir", database.ResolveMigrationsDir(cfg), "directory with SQL migration files")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkDatabaseConnection(ctx, cfg, logger)
	runMigrations(ctx, cfg, logger, *migrationsDir)
}

// ----------------------------
// Вспомогательные функции
// ----------------------------

// initEnvironment загружает конфигурацию и логгер.
func initEnvironment() (infra.Config, *infra.Logger) {
	cfg := infra.LoadConfig()
	logger := infra.NewLeveledLogger(os.Stdout, "migrate", cfg.LogLevel)
	return cfg, logger
}

// checkDatabaseConnection выполняет проверку соединения с БД.
func checkDatabaseConnection(ctx context.Context, cfg infra.Config, logger *infra.Logger) {
	if !database.ShouldCheckDatabase(cfg) {
		logger.Fatalf(ctx, "no database configured: set DB_DSN or DB_HOST")
	}
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := database.WaitForDatabase(waitCtx, cfg, logger); err != nil {
		logger.Fatalf(ctx, "database connectivity check failed: %v", err)
	}
}

// runMigrations открывает соединение и применяет миграции.
func runMigrations(ctx context.Context, cfg infra.Config, logger *infra.Logger, migrationsDir string) {
	dsn, err := database.BuildDatabaseDSN(cfg)
	if err != nil {
		logger.Fatalf(ctx, "failed to build database DSN: %v", err)
	}

	db, err := database.Connect(ctx, database.Config{DSN: dsn})
	if err != nil {
		logger.Fatalf(ctx, "failed to connect: %v", err)
	}
	defer db.Close()

	if err := database.ApplyMigrations(ctx, db, migrationsDir, logger); err != nil {
		logger.Fatalf(ctx, "migrate: %v", err)
	}
}
