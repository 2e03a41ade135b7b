// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package analysis runs a query and turns its result set into grouped
// statistics and an optional scatter chart.
package analysis

import (
	"bytes"
	"context"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/frame"
	"github.com/absmach/telequery/pkg/errors"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/plot"
)

// AllKey names the single group used when no grouping column is requested.
const AllKey = "all"

var (
	// ErrQuery indicates that the query service call failed.
	ErrQuery = errors.New("failed to query records")

	// ErrPlot indicates that the chart could not be rendered.
	ErrPlot = errors.New("failed to render plot")
)

// PlotRequest selects the columns and styling of a scatter chart.
type PlotRequest struct {
	X       string
	Y       string
	Options plot.Options
}

// AnalyzeRequest describes how to load and summarize a result set.
type AnalyzeRequest struct {
	// GroupBy is the grouping column; empty summarizes all rows together.
	GroupBy string

	// TimeColumn, when set, is converted to timestamps using TimeLayout.
	TimeColumn string
	TimeLayout string

	// Plot, when set, renders a scatter chart into the report.
	Plot *PlotRequest
}

// Validate checks that a requested plot names both axes.
func (req AnalyzeRequest) Validate() error {
	if req.Plot != nil && (req.Plot.X == "" || req.Plot.Y == "") {
		return errors.Wrap(errors.ErrMalformedEntity, errors.New("plot requires x and y columns"))
	}

	return nil
}

// Report is the outcome of an analysis.
type Report struct {
	Records   int             `json:"records"`
	Columns   []string        `json:"columns"`
	GroupBy   string          `json:"group_by,omitempty"`
	Summaries []frame.Summary `json:"summaries"`

	// Image holds the rendered chart, if one was requested.
	Image  []byte      `json:"-"`
	Format plot.Format `json:"format,omitempty"`
}

// Service specifies the analysis API.
type Service interface {
	// Query returns the raw records for the payload.
	Query(ctx context.Context, payload sdk.Payload) ([]telequery.Record, error)

	// Analyze queries records and summarizes them per group.
	Analyze(ctx context.Context, payload sdk.Payload, req AnalyzeRequest) (Report, error)
}

var _ Service = (*analysisService)(nil)

type analysisService struct {
	sdk sdk.SDK
}

// NewService returns a new analysis service backed by the given query client.
func NewService(client sdk.SDK) Service {
	return &analysisService{sdk: client}
}

func (svc analysisService) Query(ctx context.Context, payload sdk.Payload) ([]telequery.Record, error) {
	records, sdkerr := svc.sdk.Query(ctx, payload)
	if sdkerr != nil {
		return nil, errors.Wrap(ErrQuery, sdkerr)
	}

	return records, nil
}

func (svc analysisService) Analyze(ctx context.Context, payload sdk.Payload, req AnalyzeRequest) (Report, error) {
	if err := req.Validate(); err != nil {
		return Report{}, err
	}

	records, err := svc.Query(ctx, payload)
	if err != nil {
		return Report{}, err
	}

	f := frame.New(records)
	if req.TimeColumn != "" {
		if err := f.ParseTime(req.TimeColumn, req.TimeLayout); err != nil {
			return Report{}, err
		}
	}

	groups := f.All(AllKey)
	if req.GroupBy != "" {
		if groups, err = f.GroupBy(req.GroupBy); err != nil {
			return Report{}, err
		}
	}

	rep := Report{
		Records:   f.Len(),
		Columns:   f.Columns(),
		GroupBy:   req.GroupBy,
		Summaries: groups.Describe(),
	}

	if req.Plot != nil {
		var buf bytes.Buffer
		if err := plot.Scatter(&buf, groups, req.Plot.X, req.Plot.Y, req.Plot.Options); err != nil {
			return Report{}, errors.Wrap(ErrPlot, err)
		}
		rep.Image = buf.Bytes()
		rep.Format = req.Plot.Options.Format
		if rep.Format == "" {
			rep.Format = plot.PNG
		}
	}

	return rep, nil
}
