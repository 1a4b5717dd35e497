package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"quote-frontend/app/src/infra"

	_ "github.com/lib/pq"
)

const (
	defaultPostgresPort = "5432"
	defaultPingTimeout  = 5 * time.Second
	waitAttempts        = 5
	waitInterval        = 2 * time.Second
	maxOpenConns        = 10
)

// Config holds what Connect needs to open a handle.
type Config struct {
	DSN         string
	PingTimeout time.Duration
}

// Connect opens a pooled Postgres handle and pings it once.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("db: DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: open connection: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(time.Minute)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return db, nil
}

// ShouldCheckDatabase reports whether the backend has a database to use.
// Without one it keeps quotes in memory.
func ShouldCheckDatabase(cfg infra.Config) bool {
	return cfg.DatabaseDSN != "" || cfg.DatabaseHost != ""
}

// databaseAddress returns host:port from the discrete settings, completed from
// the DSN where they are missing. An empty address means nothing to wait for.
func databaseAddress(cfg infra.Config) (string, error) {
	host, port := cfg.DatabaseHost, cfg.DatabasePort
	if (host == "" || port == "") && cfg.DatabaseDSN != "" {
		parsed, err := url.Parse(cfg.DatabaseDSN)
		if err != nil {
			return "", fmt.Errorf("invalid DB_DSN: %w", err)
		}
		if host == "" {
			host = parsed.Hostname()
		}
		if port == "" {
			port = parsed.Port()
		}
	}
	if host == "" {
		return "", nil
	}
	if port == "" {
		port = defaultPostgresPort
	}
	return net.JoinHostPort(host, port), nil
}

// WaitForDatabase dials the database until it accepts TCP connections, the
// attempts run out or ctx is done.
func WaitForDatabase(ctx context.Context, cfg infra.Config, logger *infra.Logger) error {
	address, err := databaseAddress(cfg)
	if err != nil || address == "" {
		return err
	}

	dialer := &net.Dialer{Timeout: 3 * time.Second}
	for attempt := 1; attempt <= waitAttempts; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		logger.Warnf(ctx, "database check attempt %d/%d failed: %v", attempt, waitAttempts, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitInterval):
		}
	}

	return fmt.Errorf("database not reachable at %s", address)
}

// SetupRepository connects to the configured database, migrates it and returns
// the quote repository with a cleanup that closes the handle.
func SetupRepository(ctx context.Context, cfg infra.Config, logger *infra.Logger) (*PostgresRepository, func(), error) {
	dsn, err := BuildDatabaseDSN(cfg)
	if err != nil {
		return nil, nil, err
	}
	logDSN(ctx, logger, dsn)

	db, err := Connect(ctx, Config{DSN: dsn})
	if err != nil {
		return nil, nil, err
	}

	repo, err := PrepareRepository(ctx, db, ResolveMigrationsDir(cfg), logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warnf(ctx, "failed to close database: %v", err)
		}
	}
	return repo, cleanup, nil
}

// PrepareRepository applies the migrations in dir to db and wraps it. The
// handle is closed when migrating fails.
func PrepareRepository(ctx context.Context, db *sql.DB, dir string, logger *infra.Logger) (*PostgresRepository, error) {
	if err := ApplyMigrations(ctx, db, dir, logger); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warnf(ctx, "failed to close database after migration error: %v", closeErr)
		}
		return nil, err
	}
	return NewPostgresRepository(db, logger), nil
}

func logDSN(ctx context.Context, logger *infra.Logger, dsn string) {
	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Host == "" {
		logger.Println(ctx, "connecting to database (DSN not in URL form)")
		return
	}
	logger.Printf(ctx, "connecting to DSN host=%s db=%s user=%s",
		parsed.Hostname(), strings.TrimPrefix(parsed.Path, "/"), parsed.User.Username())
}

// BuildDatabaseDSN returns DB_DSN when set, otherwise a postgres:// URL built
// from the discrete DB_* settings with sslmode=disable.
func BuildDatabaseDSN(cfg infra.Config) (string, error) {
	if cfg.DatabaseDSN != "" {
		return cfg.DatabaseDSN, nil
	}

	required := []struct{ name, value string }{
		{"host", cfg.DatabaseHost},
		{"user", cfg.DatabaseUser},
		{"name", cfg.DatabaseName},
	}
	for _, field := range required {
		if field.value == "" {
			return "", fmt.Errorf("database %s is required when DSN is not provided", field.name)
		}
	}

	port := cfg.DatabasePort
	if port == "" {
		port = defaultPostgresPort
	}

	dsn := &url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.DatabaseHost, port),
		Path:     "/" + cfg.DatabaseName,
		User:     url.UserPassword(cfg.DatabaseUser, cfg.DatabasePassword),
		RawQuery: url.Values{"sslmode": {"disable"}}.Encode(),
	}
	return dsn.String(), nil
}
