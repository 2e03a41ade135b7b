// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/stretchr/testify/require"
)

const (
	target    = "site-1"
	authType  = "key"
	secretKey = "strongsecret"

	line1 = `{"time":"2024-01-01T00:00:00Z","deviceID":"s1","val1":1,"val2":2}`
	line2 = `{"time":"2024-01-01T00:01:00Z","deviceID":"s1","val1":3,"val2":4}`
)

// capture records what the fake query service received.
type capture struct {
	mu          sync.Mutex
	method      string
	path        string
	contentType string
	body        []byte
	calls       int
}

func (c *capture) last() (string, string, string, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method, c.path, c.contentType, c.body
}

func newQueryServer(t *testing.T, status int, response string) (*httptest.Server, *capture) {
	c := &capture{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.Nil(t, err)

		c.mu.Lock()
		c.method = r.Method
		c.path = r.URL.Path
		c.contentType = r.Header.Get("Content-Type")
		c.body = body
		c.calls++
		c.mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(ts.Close)

	return ts, c
}

func examplePayload() sdk.Payload {
	return sdk.Payload{
		Auth: sdk.Auth{Target: target, AuthType: authType, SecretKey: secretKey},
		Request: sdk.Request{
			Method:  sdk.MethodQuery,
			Query:   sdk.Filter{},
			Project: []string{"time", "deviceID", "val1", "val2"},
			Sort:    sdk.Sort{}.Asc("deviceID").Asc("time"),
		},
	}
}

func toJSON(t *testing.T, v interface{}) string {
	data, err := json.Marshal(v)
	require.Nil(t, err)
	return string(data)
}
