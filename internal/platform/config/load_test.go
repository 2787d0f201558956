package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
)

// repoRoot is where configs/ lives relative to this package.
const repoRoot = "../../.."

// --- Load tests ---

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir(repoRoot)

	cfg, err := config.Load("local")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "local-trace", cfg.Correlation.FallbackTraceID)

	// Inherited from base.yaml.
	assert.Equal(t, 5, cfg.Dispatch.CircuitBreaker.MaxFailures)
	assert.Equal(t, []string{"tenant", "locale"}, cfg.Correlation.Headers)
	assert.Equal(t, "ledger", cfg.Telemetry.ServiceName)
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir(repoRoot)

	cfg, err := config.Load("prod")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "otlp", cfg.Telemetry.Exporter)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.HandlerTimeout)
	assert.Equal(t, 1024, cfg.Journal.InitialCapacity)
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "top level", env: "APP_LOG_LEVEL", value: "warn",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "warn", cfg.Log.Level)
			},
		},
		{
			name: "underscore in field name", env: "APP_DISPATCH_HANDLER_TIMEOUT", value: "15s",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 15*time.Second, cfg.Dispatch.HandlerTimeout)
			},
		},
		{
			name: "nested section", env: "APP_DISPATCH_CIRCUIT_BREAKER_MAX_FAILURES", value: "7",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 7, cfg.Dispatch.CircuitBreaker.MaxFailures)
			},
		},
		{
			name: "journal capacity", env: "APP_JOURNAL_INITIAL_CAPACITY", value: "256",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 256, cfg.Journal.InitialCapacity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(repoRoot)
			t.Setenv(tt.env, tt.value)

			cfg, err := config.Load("local")
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "log:\n  level: info\n")
	writeFile(t, dir, "test.yaml", "log:\n  format: text\n")

	cfg, err := config.Load("test", config.WithConfigDir(dir))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Dispatch.HandlerTimeout)
	assert.Equal(t, 3, cfg.Dispatch.Retry.MaxAttempts)
	assert.Zero(t, cfg.Dispatch.RateLimit.RequestsPerSecond)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_InvalidFileFailsValidation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "log:\n  level: info\n")
	writeFile(t, dir, "broken.yaml", "dispatch:\n  handler_timeout: 0s\n")

	_, err := config.Load("broken", config.WithConfigDir(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir(repoRoot)

	_, err := config.Load("nonexistent")
	assert.Error(t, err)
}

func TestLoad_RejectsUnsafeProfile(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", `a\b`, "a/b"} {
		_, err := config.Load(profile)
		assert.Error(t, err, "profile %q", profile)
	}
}

// --- Validate tests ---

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "unknown log level", mutate: func(cfg *config.Config) { cfg.Log.Level = "verbose" }, wantErr: true},
		{
			name: "otlp without endpoint",
			mutate: func(cfg *config.Config) {
				cfg.Telemetry.Enabled = true
				cfg.Telemetry.Exporter = "otlp"
				cfg.Telemetry.Endpoint = ""
			},
			wantErr: true,
		},
		{
			name:    "duplicate correlation header",
			mutate:  func(cfg *config.Config) { cfg.Correlation.Headers = []string{"tenant", "tenant"} },
			wantErr: true,
		},
		{name: "zero handler timeout", mutate: func(cfg *config.Config) { cfg.Dispatch.HandlerTimeout = 0 }, wantErr: true},
		{
			name:    "rate limit without burst",
			mutate:  func(cfg *config.Config) { cfg.Dispatch.RateLimit = config.RateLimitConfig{RequestsPerSecond: 10} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func validConfig() *config.Config {
	return &config.Config{
		Log:       config.LogConfig{Level: "info", Format: "json"},
		Telemetry: config.TelemetryConfig{Exporter: "stdout", ServiceName: "ledger"},
		Correlation: config.CorrelationConfig{
			Headers: []string{"tenant"},
		},
		Dispatch: config.DispatchConfig{
			HandlerTimeout: 5 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 50 * time.Millisecond,
				MaxInterval:     2 * time.Second,
				Multiplier:      2,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Journal: config.JournalConfig{InitialCapacity: 64},
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
