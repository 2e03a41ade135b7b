// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"time"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/analysis"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/go-kit/kit/metrics"
)

var _ analysis.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     analysis.Service
}

// MetricsMiddleware instruments the analysis service by tracking request count and latency.
func MetricsMiddleware(svc analysis.Service, counter metrics.Counter, latency metrics.Histogram) analysis.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Query(ctx context.Context, payload sdk.Payload) ([]telequery.Record, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "query").Add(1)
		mm.latency.With("method", "query").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Query(ctx, payload)
}

func (mm *metricsMiddleware) Analyze(ctx context.Context, payload sdk.Payload, req analysis.AnalyzeRequest) (analysis.Report, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "analyze").Add(1)
		mm.latency.With("method", "analyze").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Analyze(ctx, payload, req)
}
