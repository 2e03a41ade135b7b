// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package jaeger

import (
	"context"
	"fmt"
	"testing"

	"github.com/absmach/telequery/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewProvider(t *testing.T) {
	cases := []struct {
		desc     string
		svcName  string
		url      string
		fraction float64
		err      error
	}{
		{
			desc:     "create provider for http collector",
			svcName:  "query_server",
			url:      "http://localhost:4318/v1/traces",
			fraction: 1,
		},
		{
			desc:     "create provider for https collector",
			svcName:  "query_server",
			url:      "https://collector.example.com:4318",
			fraction: 0.5,
		},
		{
			desc:     "create provider without URL",
			svcName:  "query_server",
			fraction: 1,
			err:      errNoURL,
		},
		{
			desc:     "create provider without service name",
			url:      "http://localhost:4318/v1/traces",
			fraction: 1,
			err:      errNoSvcName,
		},
		{
			desc:     "create provider with trace ratio above one",
			svcName:  "query_server",
			url:      "http://localhost:4318/v1/traces",
			fraction: 1.5,
			err:      errTraceRatio,
		},
		{
			desc:     "create provider with grpc scheme",
			svcName:  "query_server",
			url:      "grpc://localhost:4317",
			fraction: 1,
			err:      errUnsupported,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			tp, err := NewProvider(context.Background(), tc.svcName, tc.url, "instance-1", tc.fraction)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
				assert.Nil(t, tp)
				return
			}
			require.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
			assert.Equal(t, tp, otel.GetTracerProvider(), fmt.Sprintf("%s: expected provider to be installed globally", tc.desc))
			assert.Nil(t, tp.Shutdown(context.Background()))
		})
	}
}

func TestExporterOptions(t *testing.T) {
	opts, err := exporterOptions("http://localhost:4318/v1/traces")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Len(t, opts, 3)

	opts, err = exporterOptions("https://localhost:4318")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Len(t, opts, 1)
}
