package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Correlation.validate(),
		c.Dispatch.validate(),
		c.Journal.validate(),
	)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}
	if t.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name must not be empty when telemetry is enabled"))
	}

	return errors.Join(errs...)
}

func (c *CorrelationConfig) validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Headers))
	for _, h := range c.Headers {
		if h == "" {
			errs = append(errs, errors.New("correlation.headers must not contain empty keys"))
			continue
		}
		if seen[h] {
			errs = append(errs, fmt.Errorf("correlation.headers contains duplicate key %q", h))
		}
		seen[h] = true
	}

	return errors.Join(errs...)
}

func (d *DispatchConfig) validate() error {
	var errs []error

	if d.HandlerTimeout <= 0 {
		errs = append(errs, errors.New("dispatch.handler_timeout must be positive"))
	}
	if d.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("dispatch.retry.max_attempts must be >= 1, got %d", d.Retry.MaxAttempts))
	}
	if d.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("dispatch.retry.multiplier must be positive, got %f", d.Retry.Multiplier))
	}
	if d.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("dispatch.rate_limit.requests_per_second must be >= 0, got %f",
			d.RateLimit.RequestsPerSecond))
	}
	if d.RateLimit.RequestsPerSecond > 0 && d.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("dispatch.rate_limit.burst_size must be >= 1, got %d", d.RateLimit.BurstSize))
	}
	if d.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("dispatch.circuit_breaker.max_failures must be >= 1, got %d",
			d.CircuitBreaker.MaxFailures))
	}
	if d.CircuitBreaker.HalfOpenLimit < 1 {
		errs = append(errs, fmt.Errorf("dispatch.circuit_breaker.half_open_limit must be >= 1, got %d",
			d.CircuitBreaker.HalfOpenLimit))
	}
	if d.CircuitBreaker.Timeout <= 0 {
		errs = append(errs, errors.New("dispatch.circuit_breaker.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (j *JournalConfig) validate() error {
	if j.InitialCapacity < 0 {
		return fmt.Errorf("journal.initial_capacity must be >= 0, got %d", j.InitialCapacity)
	}
	return nil
}
