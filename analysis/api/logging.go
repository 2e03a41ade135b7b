// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

//go:build !test

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/analysis"
	"github.com/absmach/telequery/logger"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
)

var _ analysis.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger logger.Logger
	svc    analysis.Service
}

// LoggingMiddleware adds logging facilities to the analysis service.
func LoggingMiddleware(svc analysis.Service, logger logger.Logger) analysis.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Query(ctx context.Context, payload sdk.Payload) (records []telequery.Record, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method query for target %s took %s to complete", payload.Auth.Target, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s returning %d records without errors.", message, len(records)))
	}(time.Now())

	return lm.svc.Query(ctx, payload)
}

func (lm *loggingMiddleware) Analyze(ctx context.Context, payload sdk.Payload, req analysis.AnalyzeRequest) (rep analysis.Report, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method analyze for target %s grouped by %q took %s to complete", payload.Auth.Target, req.GroupBy, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s summarizing %d records in %d groups without errors.", message, rep.Records, len(rep.Summaries)))
	}(time.Now())

	return lm.svc.Analyze(ctx, payload, req)
}
