// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package server implements a development query service that answers the
// payloads sent by the telequery client with NDJSON records.
package server

import (
	"context"
	"crypto/subtle"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
)

var (
	// ErrUnsupportedMethod indicates a request method other than query.
	ErrUnsupportedMethod = errors.New("unsupported request method")

	// ErrQueryRecords indicates that the repository failed to answer a query.
	ErrQueryRecords = errors.New("failed to query records")
)

// Repository specifies the record retrieval API.
type Repository interface {
	// Query returns records matching the request filter, sorted, limited and
	// projected as the request asks.
	Query(ctx context.Context, req sdk.Request) ([]telequery.Record, error)
}

// Service specifies the query service API.
type Service interface {
	// Query authenticates the payload and answers its request.
	Query(ctx context.Context, payload sdk.Payload) ([]telequery.Record, error)
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	secret string
}

// NewService returns a query service. An empty secret disables authentication.
func NewService(repo Repository, secret string) Service {
	return &service{
		repo:   repo,
		secret: secret,
	}
}

func (svc service) Query(ctx context.Context, payload sdk.Payload) ([]telequery.Record, error) {
	if svc.secret != "" && subtle.ConstantTimeCompare([]byte(svc.secret), []byte(payload.Auth.SecretKey)) != 1 {
		return nil, errors.ErrAuthentication
	}
	if payload.Request.Method != sdk.MethodQuery {
		return nil, errors.Wrap(errors.ErrMalformedEntity, ErrUnsupportedMethod)
	}
	if err := payload.Request.Sort.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	records, err := svc.repo.Query(ctx, payload.Request)
	if err != nil {
		return nil, errors.Wrap(ErrQueryRecords, err)
	}

	return records, nil
}
