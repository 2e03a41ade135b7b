// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/analysis"
	"github.com/absmach/telequery/analysis/api"
	"github.com/absmach/telequery/logger"
	"github.com/absmach/telequery/pkg/errors"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/pkg/sdk/go/mocks"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payload = sdk.Payload{
	Auth:    sdk.Auth{Target: "site-1"},
	Request: sdk.Request{Method: sdk.MethodQuery},
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(&buf, "info")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	client := new(mocks.SDK)
	svc := api.LoggingMiddleware(analysis.NewService(client), log)

	call := client.On("Query", context.Background(), payload).Return([]telequery.Record{{"val1": 1.0}}, nil)
	_, err = svc.Analyze(context.Background(), payload, analysis.AnalyzeRequest{})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), "Method analyze for target site-1")
	call.Unset()

	buf.Reset()
	client.On("Query", context.Background(), payload).Return(nil, errors.NewSDKError(sdk.ErrTransport))
	_, err = svc.Query(context.Background(), payload)
	assert.True(t, errors.Contains(err, sdk.ErrTransport), fmt.Sprintf("expected %s, got %s", sdk.ErrTransport, err))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Method query for target site-1")
}

func TestMetricsMiddleware(t *testing.T) {
	counterVec := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{Name: "request_count"}, []string{"method"})
	latencyVec := stdprometheus.NewSummaryVec(stdprometheus.SummaryOpts{Name: "request_latency"}, []string{"method"})
	counter := kitprometheus.NewCounter(counterVec)
	latency := kitprometheus.NewSummary(latencyVec)

	client := new(mocks.SDK)
	client.On("Query", context.Background(), payload).Return([]telequery.Record{}, nil)
	svc := api.MetricsMiddleware(analysis.NewService(client), counter, latency)

	_, err := svc.Query(context.Background(), payload)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	_, err = svc.Analyze(context.Background(), payload, analysis.AnalyzeRequest{})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 1.0, testutil.ToFloat64(counterVec.WithLabelValues("query")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counterVec.WithLabelValues("analyze")))
	assert.Equal(t, 2, testutil.CollectAndCount(latencyVec))
}
