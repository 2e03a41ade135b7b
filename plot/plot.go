// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package plot renders grouped frame columns as scatter charts.
package plot

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/absmach/telequery/frame"
	"github.com/absmach/telequery/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// PNG renders a raster image.
	PNG Format = "png"
	// SVG renders a vector image.
	SVG Format = "svg"

	defWidth     = 1024
	defHeight    = 640
	defPointSize = 5
)

var (
	// ErrNoPoints indicates that no group has a point with both coordinates set.
	ErrNoPoints = errors.New("no points to plot")

	// ErrUnsupportedFormat indicates an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInvalidOptions indicates out of range plot options.
	ErrInvalidOptions = errors.New("invalid plot options")

	gridColor = drawing.ColorFromHex("d9d9d9")
)

// Format is the output image format.
type Format string

// Options controls the chart appearance. Zero values select defaults.
type Options struct {
	Title  string
	XLabel string
	YLabel string

	// PointSize is the dot diameter in pixels.
	PointSize float64

	// Alpha is the dot opacity in [0, 1]. Zero means fully opaque.
	Alpha float64

	Grid   bool
	Width  int
	Height int
	Format Format
}

// ParseFormat returns the format matching a name or file extension.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(name), ".")) {
	case PNG, "":
		return PNG, nil
	case SVG:
		return SVG, nil
	default:
		return "", errors.Wrap(ErrUnsupportedFormat, errors.New(name))
	}
}

// Scatter draws one series per group, y against x, and writes the image to w.
// Rows where either coordinate is null are left out. Time columns produce a
// time axis.
func Scatter(w io.Writer, groups frame.Groups, x, y string, opts Options) error {
	opts, err := withDefaults(opts)
	if err != nil {
		return err
	}

	timeAxis := false
	for _, g := range groups.Groups {
		if g.Frame.IsTime(x) {
			timeAxis = true
			break
		}
	}

	var (
		series   []chart.Series
		swatches []chart.Series
		xs, ys   []float64
	)
	for i, g := range groups.Groups {
		yv, err := g.Frame.Floats(y)
		if err != nil {
			return err
		}
		style := pointStyle(i, opts)

		if timeAxis {
			tv, err := g.Frame.Times(x)
			if err != nil {
				return err
			}
			s := chart.TimeSeries{Name: g.Key, Style: style}
			for j := range tv {
				if tv[j].IsZero() || math.IsNaN(yv[j]) {
					continue
				}
				s.XValues = append(s.XValues, tv[j])
				s.YValues = append(s.YValues, yv[j])
				xs = append(xs, chart.TimeToFloat64(tv[j]))
				ys = append(ys, yv[j])
			}
			if len(s.XValues) > 0 {
				series = append(series, s)
				swatches = append(swatches, swatch(g.Key, style))
			}
			continue
		}

		xv, err := g.Frame.Floats(x)
		if err != nil {
			return err
		}
		s := chart.ContinuousSeries{Name: g.Key, Style: style}
		for j := range xv {
			if math.IsNaN(xv[j]) || math.IsNaN(yv[j]) {
				continue
			}
			s.XValues = append(s.XValues, xv[j])
			s.YValues = append(s.YValues, yv[j])
			xs = append(xs, xv[j])
			ys = append(ys, yv[j])
		}
		if len(s.XValues) > 0 {
			series = append(series, s)
			swatches = append(swatches, swatch(g.Key, style))
		}
	}
	if len(series) == 0 {
		return ErrNoPoints
	}

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           axisName(opts.XLabel, x),
			Range:          paddedRange(xs, timeAxis),
			GridMajorStyle: gridStyle(opts.Grid),
		},
		YAxis: chart.YAxis{
			Name:           axisName(opts.YLabel, y),
			Range:          paddedRange(ys, false),
			GridMajorStyle: gridStyle(opts.Grid),
		},
		Series: series,
	}
	if timeAxis {
		ch.XAxis.ValueFormatter = chart.TimeValueFormatter
	}
	keys := ch
	keys.Series = swatches
	ch.Elements = []chart.Renderable{chart.Legend(&keys)}

	rp := chart.PNG
	if opts.Format == SVG {
		rp = chart.SVG
	}

	return ch.Render(rp, w)
}

func withDefaults(opts Options) (Options, error) {
	if opts.Alpha < 0 || opts.Alpha > 1 || opts.PointSize < 0 || opts.Width < 0 || opts.Height < 0 {
		return opts, ErrInvalidOptions
	}
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return opts, err
	}
	opts.Format = format
	if opts.Width == 0 {
		opts.Width = defWidth
	}
	if opts.Height == 0 {
		opts.Height = defHeight
	}
	if opts.PointSize == 0 {
		opts.PointSize = defPointSize
	}
	if opts.Alpha == 0 {
		opts.Alpha = 1
	}

	return opts, nil
}

// pointStyle renders points only, without connecting lines.
func pointStyle(i int, opts Options) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    opts.PointSize,
		DotColor:    chart.GetDefaultColor(i).WithAlpha(uint8(math.Round(opts.Alpha * 255))),
	}
}

// swatch is the legend entry of a series. The legend draws a line sample,
// so it needs a visible stroke in the dot colour.
func swatch(name string, point chart.Style) chart.Series {
	return chart.ContinuousSeries{
		Name: name,
		Style: chart.Style{
			StrokeWidth: 1,
			StrokeColor: point.DotColor,
			DotWidth:    point.DotWidth,
			DotColor:    point.DotColor,
		},
	}
}

func gridStyle(show bool) chart.Style {
	if !show {
		return chart.Hidden()
	}

	return chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
}

func axisName(label, column string) string {
	if label != "" {
		return label
	}

	return column
}

// paddedRange returns nil to let the chart fit the data, or a fixed range
// around the value when every point shares it, which the chart cannot scale.
func paddedRange(vals []float64, isTime bool) chart.Range {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo != hi {
		return nil
	}

	pad := 1.0
	if isTime {
		pad = float64(time.Minute)
	} else if lo != 0 {
		pad = math.Abs(lo) * 0.1
	}

	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
