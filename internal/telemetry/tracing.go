// Package telemetry provides wfc observers that report solves as
// OpenTelemetry spans and metrics or as structured log records.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

const instrumentationName = "github.com/blytheSchen/SketchTiler-sub000/internal/telemetry"

// Tracing records one span per solve and counts collapses and
// contradictions. It is safe for concurrent use.
type Tracing struct {
	tracer trace.Tracer
	meter  metric.Meter

	collapses      metric.Int64Counter
	contradictions metric.Int64Counter
	attempts       metric.Int64Histogram
	duration       metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
}

var _ wfc.Observer = (*Tracing)(nil)

// TracingOption configures a Tracing observer.
type TracingOption func(*Tracing)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(t *Tracing) {
		if tp != nil {
			t.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) TracingOption {
	return func(t *Tracing) {
		if mp != nil {
			t.meter = mp.Meter(instrumentationName)
		}
	}
}

// NewTracing creates a Tracing observer on the global providers unless overridden.
func NewTracing(opts ...TracingOption) *Tracing {
	t := &Tracing{
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// initMetrics creates the instruments. Safe to call multiple times.
func (t *Tracing) initMetrics() error {
	t.metricsOnce.Do(func() {
		var err error

		t.collapses, err = t.meter.Int64Counter(
			"wfc_collapses_total",
			metric.WithDescription("Cells collapsed by observation"),
		)
		if err != nil {
			t.metricsErr = err
			return
		}

		t.contradictions, err = t.meter.Int64Counter(
			"wfc_contradictions_total",
			metric.WithDescription("Attempts abandoned after a contradiction"),
		)
		if err != nil {
			t.metricsErr = err
			return
		}

		t.attempts, err = t.meter.Int64Histogram(
			"wfc_solve_attempts",
			metric.WithDescription("Attempts used per solve"),
		)
		if err != nil {
			t.metricsErr = err
			return
		}

		t.duration, err = t.meter.Float64Histogram(
			"wfc_solve_duration_seconds",
			metric.WithDescription("Duration of solves"),
			metric.WithUnit("s"),
		)
		if err != nil {
			t.metricsErr = err
			return
		}
	})
	return t.metricsErr
}

type startKey struct{}

// SolveStarted opens the wfc.Solve span.
func (t *Tracing) SolveStarted(ctx context.Context, width, height, patterns int) context.Context {
	ctx, _ = t.tracer.Start(ctx, "wfc.Solve",
		trace.WithAttributes(
			attribute.Int("wfc.width", width),
			attribute.Int("wfc.height", height),
			attribute.Int("wfc.patterns", patterns),
		),
	)
	return context.WithValue(ctx, startKey{}, time.Now())
}

// AttemptStarted adds an attempt event to the solve span.
func (t *Tracing) AttemptStarted(ctx context.Context, attempt int) {
	trace.SpanFromContext(ctx).AddEvent("attempt",
		trace.WithAttributes(attribute.Int("wfc.attempt", attempt)),
	)
}

// Collapsed counts one observation.
func (t *Tracing) Collapsed(ctx context.Context, _, _, _ int) {
	if err := t.initMetrics(); err != nil {
		return
	}
	t.collapses.Add(ctx, 1)
}

// Contradicted records the failing cell on the span and counts it.
func (t *Tracing) Contradicted(ctx context.Context, attempt, x, y int) {
	trace.SpanFromContext(ctx).AddEvent("contradiction",
		trace.WithAttributes(
			attribute.Int("wfc.attempt", attempt),
			attribute.Int("wfc.x", x),
			attribute.Int("wfc.y", y),
		),
	)
	if err := t.initMetrics(); err != nil {
		return
	}
	t.contradictions.Add(ctx, 1)
}

// SolveFinished sets the span status, records attempt and duration
// histograms and ends the span.
func (t *Tracing) SolveFinished(ctx context.Context, attempts int, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int("wfc.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	defer span.End()

	if mErr := t.initMetrics(); mErr != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	t.attempts.Record(ctx, int64(attempts), attrs)
	if start, ok := ctx.Value(startKey{}).(time.Time); ok {
		t.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
