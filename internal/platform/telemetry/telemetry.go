// Package telemetry wires OpenTelemetry tracing and metrics for the ledger.
// Spans and metrics go either to stdout (development) or to an OTLP/HTTP
// collector.
//
//	tp, err := telemetry.InitTracer(ctx, "ledger", telemetry.ExporterStdout, "")
//	mp, err := telemetry.InitMeter(ctx, "ledger", telemetry.ExporterOTLP, "http://otel-collector:4318")
//	metrics, err := telemetry.NewMetrics(mp, "ledger")
//	metrics.RecordUnitOfWork(ctx, "account.open", telemetry.OutcomeCommitted, elapsed)
//
// Both providers are registered globally and must be shut down on exit.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Exporter names accepted by InitTracer and InitMeter.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

var (
	ErrUnsupportedExporter = errors.New("unsupported exporter")
	ErrMissingEndpoint     = errors.New("otlp exporter requires an endpoint")
)

// InitTracer installs a global TracerProvider that batches spans to the
// named exporter, plus W3C trace-context and baggage propagation.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, err
	}

	var spans sdktrace.SpanExporter
	switch exporter {
	case ExporterStdout:
		spans, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterOTLP:
		var target collector
		if target, err = parseCollector(endpoint); err == nil {
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(target.host)}
			if target.insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			spans, err = otlptracehttp.New(ctx, opts...)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("span exporter %s: %w", exporter, err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(spans), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// InitMeter installs a global MeterProvider that periodically pushes to the
// named exporter.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, err
	}

	var push sdkmetric.Exporter
	switch exporter {
	case ExporterStdout:
		push, err = stdoutmetric.New()
	case ExporterOTLP:
		var target collector
		if target, err = parseCollector(endpoint); err == nil {
			opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(target.host)}
			if target.insecure {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			}
			push, err = otlpmetrichttp.New(ctx, opts...)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("metric exporter %s: %w", exporter, err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(push)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

func serviceResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("building resource for %s: %w", serviceName, err)
	}
	return res, nil
}

// collector is an OTLP/HTTP target. The exporters want host:port, not a URL.
type collector struct {
	host     string
	insecure bool
}

// parseCollector accepts "http://otel-collector:4318" or a bare
// "otel-collector:4318". Only an https scheme enables TLS.
func parseCollector(endpoint string) (collector, error) {
	if endpoint == "" {
		return collector{}, ErrMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return collector{host: endpoint, insecure: true}, nil
	}
	return collector{host: u.Host, insecure: u.Scheme != "https"}, nil
}
