// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/logger"
	"github.com/absmach/telequery/pkg/apiutil"
	"github.com/absmach/telequery/pkg/errors"
	"github.com/absmach/telequery/pkg/ndjson"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/server"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const contentType = "application/json"

// MakeHandler returns a HTTP handler for the query endpoint with health check and metrics.
func MakeHandler(svc server.Service, logger logger.Logger, svcName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, encodeError)),
	}

	mux := chi.NewRouter()

	mux.Post("/query", otelhttp.NewHandler(kithttp.NewServer(
		queryEndpoint(svc),
		decodeQuery,
		encodeResponse,
		opts...,
	), "query").ServeHTTP)

	mux.Get("/health", telequery.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeQuery(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var payload sdk.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(apiutil.ErrMalformedPayload, err))
	}

	return queryReq{payload: payload}, nil
}

// encodeResponse writes records as NDJSON, one object per line.
func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	res := response.(queryRes)
	w.Header().Set("Content-Type", ndjson.ContentType)
	for k, v := range res.Headers() {
		w.Header().Set(k, v)
	}
	w.WriteHeader(res.Code())
	if res.Empty() {
		return nil
	}

	enc := ndjson.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	for _, rec := range res.records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	return nil
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", contentType)
	switch {
	case errors.Contains(err, apiutil.ErrMalformedPayload),
		errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, sdk.ErrInvalidSort),
		errors.Contains(err, sdk.ErrInvalidDirection):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Contains(err, errors.ErrAuthentication):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Contains(err, apiutil.ErrUnsupportedContentType):
		w.WriteHeader(http.StatusUnsupportedMediaType)
	case errors.Contains(err, server.ErrQueryRecords):
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}
	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
