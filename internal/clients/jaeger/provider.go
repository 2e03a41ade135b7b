// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package jaeger installs an OpenTelemetry tracer provider that exports
// spans over OTLP/HTTP to a Jaeger collector.
package jaeger

import (
	"context"
	"net/url"

	"github.com/absmach/telequery/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

var (
	errNoURL       = errors.New("URL is empty")
	errNoSvcName   = errors.New("service name is empty")
	errUnsupported = errors.New("unsupported collector URL scheme")
	errTraceRatio  = errors.New("trace ratio must be between 0 and 1")
)

// NewProvider initializes a batching tracer provider, registers it as the
// global provider and returns it so the caller can shut it down.
func NewProvider(ctx context.Context, svcName, rawURL, instanceID string, fraction float64) (*tracesdk.TracerProvider, error) {
	if rawURL == "" {
		return nil, errNoURL
	}
	if svcName == "" {
		return nil, errNoSvcName
	}
	if fraction < 0 || fraction > 1 {
		return nil, errTraceRatio
	}

	opts, err := exporterOptions(rawURL)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	attributes := []attribute.KeyValue{
		semconv.ServiceNameKey.String(svcName),
		attribute.String("host.id", instanceID),
	}

	hostAttr, err := resource.New(ctx, resource.WithHost(), resource.WithOSDescription(), resource.WithContainer())
	if err != nil {
		return nil, err
	}
	attributes = append(attributes, hostAttr.Attributes()...)

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(fraction))),
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			attributes...,
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}

func exporterOptions(rawURL string) ([]otlptracehttp.Option, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(u.Host)}
	switch u.Scheme {
	case "http":
		opts = append(opts, otlptracehttp.WithInsecure())
	case "https":
	default:
		return nil, errors.Wrap(errUnsupported, errors.New(rawURL))
	}
	if u.Path != "" {
		opts = append(opts, otlptracehttp.WithURLPath(u.Path))
	}

	return opts, nil
}
