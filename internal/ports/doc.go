// Package ports defines the capability interfaces shared between layers.
// Messaging ports (MessageHandler, CorrelationProvider, EventHandler) are
// implemented by the application layer and composed by the dispatch
// registry, units of work, and sagas. The EventJournal port is implemented by
// outbound adapters and consumed by command services. HealthChecker is
// implemented by journals and circuit breakers and collected by the health
// registry.
package ports
