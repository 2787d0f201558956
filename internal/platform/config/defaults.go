package config

const (
	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultRateLimitBurst = 1

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultJournalCapacity = 64
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "ledger",

		"correlation.headers":           []string{},
		"correlation.fallback_trace_id": "",

		"dispatch.handler_timeout":                 "5s",
		"dispatch.retry.max_attempts":             defaultRetryMaxAttempts,
		"dispatch.retry.initial_interval":         "50ms",
		"dispatch.retry.max_interval":             "2s",
		"dispatch.retry.multiplier":               defaultRetryMultiplier,
		"dispatch.rate_limit.requests_per_second": 0,
		"dispatch.rate_limit.burst_size":          defaultRateLimitBurst,
		"dispatch.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"dispatch.circuit_breaker.timeout":         "30s",
		"dispatch.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"journal.initial_capacity": defaultJournalCapacity,
	}
}
