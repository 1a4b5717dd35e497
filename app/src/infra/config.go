package infra

import (
	"context"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"quote-frontend/app/src/infra/utils"
)

type Config struct {
	HTTPPort    string
	GRPCPort    string
	MetricsPort string
	LogLevel    string

	BackendHost            string
	BackendPort            string
	BackendTimeoutMS       int
	NotRunningInKubernetes bool
	FallbackQuotesFile     string

	DatabaseDSN      string
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	MigrationsDir    string
	SeedQuotes       bool
}

func LoadConfig() Config {
	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		GRPCPort:    getEnv("GRPC_PORT", "50051"),
		MetricsPort: getEnvOptional("METRICS_PORT", "2112"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		BackendHost:            getEnv("backend_host", os.Getenv("BACKEND_HOST")),
		BackendPort:            getEnv("backend_port", os.Getenv("BACKEND_PORT")),
		BackendTimeoutMS:       getEnvInt("BACKEND_TIMEOUT_MS", 1000),
		NotRunningInKubernetes: getEnvBool("not_running_in_kubernetes", getEnvBool("NOT_RUNNING_IN_KUBERNETES", false)),
		FallbackQuotesFile:     os.Getenv("FALLBACK_QUOTES_FILE"),

		DatabaseDSN:      os.Getenv("DB_DSN"),
		DatabaseHost:     os.Getenv("DB_HOST"),
		DatabasePort:     os.Getenv("DB_PORT"),
		DatabaseUser:     os.Getenv("DB_USER"),
		DatabasePassword: os.Getenv("DB_PASSWORD"),
		DatabaseName:     os.Getenv("DB_NAME"),
		MigrationsDir:    os.Getenv("MIGRATIONS_DIR"),
		SeedQuotes:       getEnvBool("BACKEND_SEED", true),
	}
}

// BackendURL returns the base URL of the quote backend, or an empty string
// when the host or the port is missing.
func (c *Config) BackendURL() string {
	if c == nil || c.BackendHost == "" || c.BackendPort == "" {
		return ""
	}
	return "http://" + net.JoinHostPort(c.BackendHost, c.BackendPort)
}

// BackendTimeout returns the per-call timeout, never less than one millisecond.
func (c *Config) BackendTimeout() time.Duration {
	if c == nil || c.BackendTimeoutMS <= 0 {
		return time.Second
	}
	return time.Duration(c.BackendTimeoutMS) * time.Millisecond
}

func LogConfig(ctx context.Context, logger *Logger, cfg Config) {
	logger.Printf(ctx, "HTTP_PORT=%s", cfg.HTTPPort)
	logger.Printf(ctx, "GRPC_PORT=%s", cfg.GRPCPort)
	logger.Printf(ctx, "METRICS_PORT=%s", utils.EmptyFallback(cfg.MetricsPort, "(disabled)"))
	logger.Printf(ctx, "LOG_LEVEL=%s", cfg.LogLevel)
	if url := cfg.BackendURL(); url != "" {
		logger.Printf(ctx, "backend endpoint configured, will attempt to connect to the backend on: %s", url)
	} else {
		logger.Warnf(ctx, "'backend_host' or 'backend_port' not set, set both to connect to the backend")
	}
	logger.Printf(ctx, "BACKEND_TIMEOUT_MS=%d", cfg.BackendTimeoutMS)
	logger.Printf(ctx, "NOT_RUNNING_IN_KUBERNETES=%t", cfg.NotRunningInKubernetes)
	logger.Printf(ctx, "FALLBACK_QUOTES_FILE=%s", utils.EmptyFallback(cfg.FallbackQuotesFile, "(built-in)"))
	if cfg.DatabaseDSN != "" {
		logger.Printf(ctx, "DB_DSN set (length %d)", len(cfg.DatabaseDSN))
	} else {
		logger.Println(ctx, "DB_DSN not provided")
	}
	logger.Printf(ctx, "DB_HOST=%s", utils.EmptyFallback(cfg.DatabaseHost, "(not set)"))
	logger.Printf(ctx, "DB_PORT=%s", utils.EmptyFallback(cfg.DatabasePort, "(not set)"))
	logger.Printf(ctx, "DB_USER=%s", utils.EmptyFallback(cfg.DatabaseUser, "(not set)"))
	if cfg.DatabasePassword != "" {
		logger.Println(ctx, "DB_PASSWORD set (redacted)")
	} else {
		logger.Println(ctx, "DB_PASSWORD not provided")
	}
	logger.Printf(ctx, "DB_NAME=%s", utils.EmptyFallback(cfg.DatabaseName, "(not set)"))
	logger.Printf(ctx, "MIGRATIONS_DIR=%s", utils.EmptyFallback(cfg.MigrationsDir, "(default)"))
	logger.Printf(ctx, "BACKEND_SEED=%t", cfg.SeedQuotes)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvOptional applies fallback only when key is unset; an empty value is kept.
func getEnvOptional(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvBool treats any non-empty value other than a false literal as true.
func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return parsed
}
