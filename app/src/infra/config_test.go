package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBackendEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"backend_host", "BACKEND_HOST", "backend_port", "BACKEND_PORT",
		"not_running_in_kubernetes", "NOT_RUNNING_IN_KUBERNETES", "BACKEND_TIMEOUT_MS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Log("Шаг 1: очищаем переменные окружения и загружаем конфиг")
	clearBackendEnv(t)
	t.Setenv("HTTP_PORT", "")
	t.Setenv("BACKEND_SEED", "")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, 1000, cfg.BackendTimeoutMS)
	assert.False(t, cfg.NotRunningInKubernetes)
	assert.True(t, cfg.SeedQuotes)
	assert.Empty(t, cfg.BackendURL())
}

func TestLoadConfigMetricsPort(t *testing.T) {
	t.Log("Шаг 1: переменная не задана, используется порт по умолчанию")
	t.Setenv("METRICS_PORT", "")
	require.NoError(t, os.Unsetenv("METRICS_PORT"))
	assert.Equal(t, "2112", LoadConfig().MetricsPort)

	t.Log("Шаг 2: пустое значение отключает сервер метрик")
	t.Setenv("METRICS_PORT", "")
	cfg := LoadConfig()
	assert.Empty(t, cfg.MetricsPort)

	var buf bytes.Buffer
	LogConfig(context.Background(), NewLogger(&buf, "test"), cfg)
	assert.Contains(t, buf.String(), "METRICS_PORT=(disabled)")

	t.Log("Шаг 3: явный порт")
	t.Setenv("METRICS_PORT", "9100")
	assert.Equal(t, "9100", LoadConfig().MetricsPort)
}

func TestGetEnvOptional(t *testing.T) {
	t.Setenv("OPT", "")
	assert.Equal(t, "", getEnvOptional("OPT", "x"))
	require.NoError(t, os.Unsetenv("OPT"))
	assert.Equal(t, "x", getEnvOptional("OPT", "x"))
}

func TestLoadConfigReadsLowercaseBackendVariables(t *testing.T) {
	t.Log("Шаг 1: устанавливаем переменные окружения бэкенда")
	clearBackendEnv(t)
	t.Setenv("backend_host", "quotes-backend")
	t.Setenv("backend_port", "5000")
	t.Setenv("not_running_in_kubernetes", "yes")

	cfg := LoadConfig()

	t.Log("Шаг 2: проверяем адрес и флаг развёртывания")
	assert.Equal(t, "http://quotes-backend:5000", cfg.BackendURL())
	assert.True(t, cfg.NotRunningInKubernetes)
}

func TestLoadConfigFallsBackToUppercaseVariables(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("BACKEND_HOST", "10.0.0.7")
	t.Setenv("BACKEND_PORT", "8081")
	t.Setenv("BACKEND_TIMEOUT_MS", "250")

	cfg := LoadConfig()

	assert.Equal(t, "http://10.0.0.7:8081", cfg.BackendURL())
	assert.Equal(t, 250*time.Millisecond, cfg.BackendTimeout())
}

func TestBackendURLRequiresHostAndPort(t *testing.T) {
	cfg := &Config{BackendHost: "backend"}
	assert.Empty(t, cfg.BackendURL())

	cfg = &Config{BackendPort: "5000"}
	assert.Empty(t, cfg.BackendURL())

	var nilCfg *Config
	assert.Empty(t, nilCfg.BackendURL())
	assert.Equal(t, time.Second, nilCfg.BackendTimeout())
}

func TestLogConfigProducesEntries(t *testing.T) {
	t.Log("Шаг 1: логируем конфигурацию и проверяем записи")
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")
	cfg := Config{DatabasePassword: "secret"}

	LogConfig(context.Background(), logger, cfg)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.NotEmpty(t, lines)
	assert.NotContains(t, buf.String(), "secret")

	levels := map[string]int{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var payload map[string]any
		assert.NoError(t, json.Unmarshal([]byte(line), &payload))
		levels[payload["level"].(string)]++
	}
	t.Log("Шаг 2: без адреса бэкенда ожидаем одно предупреждение")
	assert.Equal(t, 1, levels["warn"])
	assert.Greater(t, levels["info"], 10)
}

func TestGetEnv(t *testing.T) {
	t.Log("получаем переменную окружения с запасным значением")
	t.Setenv("FOO", "bar")
	assert.Equal(t, "bar", getEnv("FOO", "baz"))
	t.Setenv("FOO", "")
	assert.Equal(t, "baz", getEnv("FOO", "baz"))
}

func TestGetEnvInt(t *testing.T) {
	t.Log("читаем целочисленную переменную окружения")
	t.Setenv("NUM", "42")
	assert.Equal(t, 42, getEnvInt("NUM", 1))
	t.Log("проверяем поведение при некорректном значении")
	t.Setenv("NUM", "invalid")
	assert.Equal(t, 1, getEnvInt("NUM", 1))
}

func TestGetEnvBool(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"true":  true,
		"1":     true,
		"yes":   true,
		"false": false,
		"0":     false,
	}
	for value, want := range cases {
		t.Setenv("FLAG", value)
		assert.Equal(t, want, getEnvBool("FLAG", false), value)
	}
}
