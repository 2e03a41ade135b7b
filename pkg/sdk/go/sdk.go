// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
	"moul.io/http2curl"
)

const (
	// CTJSON represents JSON content type.
	CTJSON ContentType = "application/json"

	queryEndpoint  = "query"
	healthEndpoint = "health"
)

var (
	// ErrTransport indicates that the request could not be completed
	// (connection, DNS, TLS or timeout failure).
	ErrTransport = errors.New("query service transport failure")

	// ErrMalformedPayload indicates that the payload could not be serialized.
	ErrMalformedPayload = errors.New("failed to marshal query payload")

	// ErrReadBody indicates that the response body could not be read.
	ErrReadBody = errors.New("failed to read response body")
)

// ContentType represents all possible content types.
type ContentType string

// SDK contains the telequery API.
type SDK interface {
	// Query posts the payload to the query endpoint and decodes the NDJSON
	// response, one record per line, in the order the server sent them.
	//
	// For example:
	//  payload := sdk.Payload{
	//    Auth: sdk.Auth{Target: "site-1", AuthType: "key", SecretKey: "secret"},
	//    Request: sdk.Request{
	//      Method:  sdk.MethodQuery,
	//      Project: []string{"time", "deviceID", "val1", "val2"},
	//      Sort:    sdk.Sort{}.Asc("deviceID").Asc("time"),
	//    },
	//  }
	//  records, _ := sdk.Query(ctx, payload)
	//  fmt.Println(records)
	Query(ctx context.Context, payload Payload) ([]telequery.Record, errors.SDKError)

	// Health returns the query service health check.
	//
	// For example:
	//  health, _ := sdk.Health(ctx)
	//  fmt.Println(health)
	Health(ctx context.Context) (telequery.HealthInfo, errors.SDKError)
}

type tqSDK struct {
	queryURL  string
	healthURL string

	client   *http.Client
	curlFlag bool
}

// Config contains sdk configuration parameters.
type Config struct {
	// HostURL is the query service base URL, e.g. http://localhost:9099.
	HostURL string

	// Timeout bounds a whole request; zero keeps the transport default.
	Timeout time.Duration

	TLSVerification bool
	CurlFlag        bool
}

// NewSDK returns new telequery SDK instance.
func NewSDK(conf Config) SDK {
	base := strings.TrimSuffix(conf.HostURL, "/")

	return &tqSDK{
		queryURL:  base + "/" + queryEndpoint,
		healthURL: base + "/" + healthEndpoint,
		client: &http.Client{
			Timeout: conf.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !conf.TLSVerification,
				},
			},
		},
		curlFlag: conf.CurlFlag,
	}
}

// processRequest creates and send a new HTTP request, and checks for errors in the HTTP response.
// It then returns the response headers, the response body, and the associated error(s) (if any).
func (sdk tqSDK) processRequest(ctx context.Context, method, reqURL string, data []byte, headers map[string]string, expectedRespCodes ...int) (http.Header, []byte, errors.SDKError) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(data))
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(errors.Wrap(ErrTransport, err))
	}

	// Sets a default value for the Content-Type.
	// Overridden if Content-Type is passed in the headers arguments.
	req.Header.Set("Content-Type", string(CTJSON))

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if sdk.curlFlag {
		curlCommand, err := http2curl.GetCurlCommand(req)
		if err != nil {
			return nil, nil, errors.NewSDKError(err)
		}
		log.Println(curlCommand.String())
	}

	resp, err := sdk.client.Do(req)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(errors.Wrap(ErrTransport, err))
	}
	defer resp.Body.Close()

	if sdkerr := errors.CheckError(resp, expectedRespCodes...); sdkerr != nil {
		return make(http.Header), []byte{}, sdkerr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKErrorWithStatus(errors.Wrap(ErrReadBody, err), resp.StatusCode)
	}

	return resp.Header, body, nil
}
