/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package telemetry configures OpenTelemetry tracing for the A1 bridge.
//
// Span attributes use the `a1.` prefix:
//   - a1.ric: the RIC id
//   - a1.operation: the southbound operation
//   - a1.policy_type / a1.policy_id: the targeted policy, when any
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName  = "github.com/marcus-qen/a1bridge"
	serviceName = "a1bridge"
)

// Tracer returns the package-level tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitTraceProvider initialises the OTel trace provider with an OTLP gRPC exporter.
// If endpoint is empty, tracing is disabled (noop provider is used).
// Returns a shutdown function that must be called on application exit.
func InitTraceProvider(ctx context.Context, endpoint string, insecure bool, version string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// --- Span helpers ---

// StartA1Span creates a client span for one southbound operation.
func StartA1Span(ctx context.Context, ric, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	base := []attribute.KeyValue{
		attribute.String("a1.ric", ric),
		attribute.String("a1.operation", operation),
	}
	return Tracer().Start(ctx, "a1."+operation,
		trace.WithAttributes(append(base, attrs...)...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// PolicyAttributes tags a span with the policy it targets.
func PolicyAttributes(policyType, policyID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("a1.policy_type", policyType),
		attribute.String("a1.policy_id", policyID),
	}
}

// EndA1Span records the outcome and ends the span.
func EndA1Span(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("a1.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// StartSupervisionSpan creates the parent span for one supervision sweep.
func StartSupervisionSpan(ctx context.Context, trigger string, rics int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "supervision.sweep",
		trace.WithAttributes(
			attribute.String("a1.trigger", trigger),
			attribute.Int("a1.rics", rics),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSupervisionSpan enriches the sweep span with the number of failed RICs.
func EndSupervisionSpan(span trace.Span, failed int) {
	span.SetAttributes(attribute.Int("a1.failed_rics", failed))
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d rics unavailable", failed))
	}
	span.End()
}
