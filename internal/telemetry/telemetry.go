// Package telemetry wires the engine's OpenTelemetry tracer and meter
// providers. Package-level instruments (the store's, which it obtains from
// otel.Tracer/otel.Meter at init time) resolve against the
// global no-op provider until Init installs a real one, mirroring
// steveyegge-beads' "instruments forward to the real provider once
// telemetry.Init() runs" pattern (internal/storage/dolt/store.go).
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	stdoutmetric "go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Tracer is an engine-wide tracer handle. No package in this module starts
// spans against it; the store uses its own otel.Tracer.
var Tracer = otel.Tracer("github.com/ontograph/ontograph")

// Meter is an engine-wide meter handle. No package in this module records
// against it; the store's counters come from its own otel.Meter.
var Meter = otel.Meter("github.com/ontograph/ontograph")

// Shutdown stops the providers Init installed. A no-op when Init was
// never called (the zero value closes over nothing).
var Shutdown = func(context.Context) error { return nil }

// Init installs stdout-exporting trace and metric providers as the
// global OTel providers. serviceName identifies this process in emitted
// spans/metrics (spec.md's Configuration surface passes this through
// from {genesisPath, ...}'s sibling service-identity config). Init is
// called once at process startup; calling it twice replaces
// the previous global providers without closing them, so callers should
// invoke Shutdown before a second Init.
func Init(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: build trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	metricExporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("telemetry: build metric exporter: %w", err)
	}
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter)),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	Tracer = otel.Tracer("github.com/ontograph/ontograph")
	Meter = otel.Meter("github.com/ontograph/ontograph")

	shutdown := func(ctx context.Context) error {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
		return meterProvider.Shutdown(ctx)
	}
	Shutdown = shutdown
	return shutdown, nil
}
