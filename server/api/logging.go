// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/logger"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/server"
)

var _ server.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger logger.Logger
	svc    server.Service
}

// LoggingMiddleware adds logging facilities to the query service.
func LoggingMiddleware(svc server.Service, logger logger.Logger) server.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Query(ctx context.Context, payload sdk.Payload) (records []telequery.Record, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method query for target %s with filter %v took %s to complete", payload.Auth.Target, payload.Request.Query, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s returning %d records without errors.", message, len(records)))
	}(time.Now())

	return lm.svc.Query(ctx, payload)
}
