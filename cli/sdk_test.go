// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/absmach/telequery/analysis"
	"github.com/absmach/telequery/analysis/api"
	"github.com/absmach/telequery/cli"
	"github.com/absmach/telequery/logger"
	sdkmocks "github.com/absmach/telequery/pkg/sdk/go/mocks"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSetService(t *testing.T) {
	sdkMock := new(sdkmocks.SDK)
	cli.SetSDK(sdkMock)
	path := writePayload(t, payloadJSON)

	var buf bytes.Buffer
	log, err := logger.New(&buf, "info")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	counterVec := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{Name: "request_count"}, []string{"method"})
	latencyVec := stdprometheus.NewSummaryVec(stdprometheus.SummaryOpts{Name: "request_latency"}, []string{"method"})

	svc := analysis.NewService(sdkMock)
	svc = api.LoggingMiddleware(svc, log)
	svc = api.MetricsMiddleware(svc, kitprometheus.NewCounter(counterVec), kitprometheus.NewSummary(latencyVec))
	cli.SetService(svc)
	defer cli.SetSDK(sdkMock)

	cases := []struct {
		desc   string
		args   []string
		method string
	}{
		{
			desc:   "query through wrapped service",
			args:   []string{"query", path},
			method: "query",
		},
		{
			desc:   "describe through wrapped service",
			args:   []string{"describe", path, "--group", "deviceID"},
			method: "analyze",
		},
	}

	sdkCall := sdkMock.On("Query", mock.Anything, mock.Anything).Return(records, nil)
	defer sdkCall.Unset()

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			buf.Reset()
			root := newRoot(cli.NewQueryCmd())
			root.AddCommand(cli.NewDescribeCmd())
			executeCommand(t, root, tc.args...)
			assert.Equal(t, 1.0, testutil.ToFloat64(counterVec.WithLabelValues(tc.method)), fmt.Sprintf("%s: expected one %s request", tc.desc, tc.method))
			assert.Contains(t, buf.String(), fmt.Sprintf("Method %s for target site-1", tc.method))
		})
	}
}
