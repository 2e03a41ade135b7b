// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"time"

	"github.com/absmach/telequery"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/server"
	"github.com/go-kit/kit/metrics"
)

var _ server.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     server.Service
}

// MetricsMiddleware instruments the query service by tracking request count and latency.
func MetricsMiddleware(svc server.Service, counter metrics.Counter, latency metrics.Histogram) server.Service {
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
