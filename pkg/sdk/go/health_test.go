// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absmach/telequery"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/health", telequery.Health("query-server", "instance-1"))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	tqsdk := sdk.NewSDK(sdk.Config{HostURL: ts.URL})
	h, err := tqsdk.Health(context.Background())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, "pass", h.Status)
	assert.Equal(t, "query-server service", h.Description)
	assert.Equal(t, "instance-1", h.InstanceID)
	assert.Equal(t, telequery.Version, h.Version)
}

func TestHealthNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"entity not found"}`))
	}))
	defer ts.Close()

	_, err := sdk.NewSDK(sdk.Config{HostURL: ts.URL}).Health(context.Background())
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode())
}
