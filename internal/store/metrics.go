package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ontograph/ontograph/internal/evgraph"
)

// storeTracer/storeMetrics mirror steveyegge-beads' doltTracer/doltMetrics
// pattern (internal/storage/dolt/store.go): package-level instruments
// obtained from the global OTel provider at init time. The global
// provider is a no-op until telemetry.Init installs a real one; these
// handles forward to it automatically once that happens, same as the
// teacher's own doltTracer/doltMetrics.
var storeTracer = otel.Tracer("github.com/ontograph/ontograph/store")

var storeMetrics struct {
	appendCount  metric.Int64Counter
	cycleRejects metric.Int64Counter
}

func init() {
	m := otel.Meter("github.com/ontograph/ontograph/store")
	storeMetrics.appendCount, _ = m.Int64Counter("ontograph.store.append_count",
		metric.WithDescription("Events successfully appended to the store"),
		metric.WithUnit("{event}"),
	)
	storeMetrics.cycleRejects, _ = m.Int64Counter("ontograph.store.cycle_rejects",
		metric.WithDescription("Appends rejected by the acyclicity check"),
		metric.WithUnit("{event}"),
	)
}

// traceAppend starts the span an instrumented append runs under.
func traceAppend(ctx context.Context, base, typ string) (context.Context, trace.Span) {
	return storeTracer.Start(ctx, "store.append", trace.WithAttributes(
		attribute.String("ontograph.base", base),
		attribute.String("ontograph.type", typ),
	))
}

// endAppendSpan records the outcome, ends span, and increments the
// matching counter.
func endAppendSpan(ctx context.Context, span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, evgraph.ErrCycleDetected) {
			storeMetrics.cycleRejects.Add(ctx, 1)
		}
	} else {
		storeMetrics.appendCount.Add(ctx, 1)
	}
	span.End()
}
