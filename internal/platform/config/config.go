// Package config provides configuration loading and validation for the ledger.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the ledger.
type Config struct {
	Log         LogConfig         `koanf:"log"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Correlation CorrelationConfig `koanf:"correlation"`
	Dispatch    DispatchConfig    `koanf:"dispatch"`
	Journal     JournalConfig     `koanf:"journal"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// CorrelationConfig controls which metadata derived messages inherit.
type CorrelationConfig struct {
	// Headers are copied verbatim from a causing message when present.
	Headers []string `koanf:"headers"`
	// FallbackTraceID is stamped when the causing message has no trace id.
	// Empty means one is generated at startup.
	FallbackTraceID string `koanf:"fallback_trace_id"`
}

// DispatchConfig holds settings for handlers invoked through a unit of work.
type DispatchConfig struct {
	HandlerTimeout time.Duration        `koanf:"handler_timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// RetryConfig holds retry policy settings with exponential backoff. Only
// handler errors classified as unavailable are retried.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// RateLimitConfig throttles handler invocations. A zero RequestsPerSecond
// disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// JournalConfig sizes the in-memory event journal.
type JournalConfig struct {
	InitialCapacity int `koanf:"initial_capacity"`
}
