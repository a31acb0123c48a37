// Package otel provides OpenTelemetry integration for blockbridge tool
// dispatch: per-invocation metrics and spans, and OTLP trace export setup for
// the daemon.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/blockbridge-dev/blockbridge/registry"
)

// InvokeObserver records tool invocation outcomes into OpenTelemetry.
// It satisfies registry.Observer.
type InvokeObserver struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	failures    metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewInvokeObserver creates an observer bound to the provided meter/tracer.
func NewInvokeObserver(meter metric.Meter, tracer trace.Tracer) (*InvokeObserver, error) {
	invocations, err := meter.Int64Counter(
		"blockbridge.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"blockbridge.tool.failures",
		metric.WithDescription("Number of failed tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"blockbridge.tool.latency",
		metric.WithDescription("Tool invocation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &InvokeObserver{
		tracer:      tracer,
		invocations: invocations,
		failures:    failures,
		latency:     latency,
	}, nil
}

// ObserveInvoke records one invocation result.
func (o *InvokeObserver) ObserveInvoke(ctx context.Context, obs registry.Observation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool_name", obs.ToolName),
		attribute.Bool("success", obs.Success),
	}
	if obs.ErrKind != "" {
		attrs = append(attrs, attribute.String("error_kind", obs.ErrKind))
	}

	o.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	if !obs.Success {
		o.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	o.latency.Record(ctx, obs.Duration.Seconds(), metric.WithAttributes(attrs...))

	// The handler already finished, so the span is recorded retroactively
	// with explicit timestamps covering the invocation window.
	end := time.Now()
	_, span := o.tracer.Start(ctx, "tool:"+obs.ToolName,
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-obs.Duration)),
	)
	if !obs.Success {
		span.SetStatus(codes.Error, obs.ErrKind)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}
