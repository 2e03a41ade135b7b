// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes one numeric column.
type Stats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

// Summary holds the statistics of every numeric column of one group.
type Summary struct {
	Key     string  `json:"key"`
	Columns []Stats `json:"columns"`
}

// Describe computes statistics for every numeric column of the frame.
func (f *Frame) Describe() []Stats {
	return f.describe(f.numericColumns(""))
}

// Describe computes statistics for every group. The set of numeric columns
// is decided over the whole frame and excludes the grouping column.
func (gs Groups) Describe() []Summary {
	var cols []string
	if gs.parent != nil {
		cols = gs.parent.numericColumns(gs.By)
	}

	sums := make([]Summary, len(gs.Groups))
	for i, g := range gs.Groups {
		sums[i] = Summary{
			Key:     g.Key,
			Columns: g.Frame.describe(cols),
		}
	}

	return sums
}

func (f *Frame) numericColumns(exclude string) []string {
	var cols []string
	for _, c := range f.columns {
		if c != exclude && f.numeric(c) {
			cols = append(cols, c)
		}
	}

	return cols
}

func (f *Frame) describe(cols []string) []Stats {
	stats := make([]Stats, 0, len(cols))
	for _, c := range cols {
		var vals []float64
		for _, cell := range f.cells[c] {
			if v, ok := toFloat(cell); ok && !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		stats = append(stats, describeValues(c, vals))
	}

	return stats
}

func describeValues(column string, vals []float64) Stats {
	s := Stats{Column: column, Count: len(vals)}
	nan := math.NaN()
	if len(vals) == 0 {
		s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Std = nan
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.P25 = quantile(0.25, sorted)
	s.P50 = quantile(0.5, sorted)
	s.P75 = quantile(0.75, sorted)

	return s
}

// quantile linearly interpolates between the closest ranks of sorted data,
// the estimator spreadsheets and dataframe libraries use by default.
// stat.Quantile only offers the empirical and the cumulative interpolated
// estimators, which disagree with it on small groups.
func quantile(p float64, sorted []float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// MarshalJSON encodes undefined statistics as null.
func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		P25    *float64 `json:"25%"`
		P50    *float64 `json:"50%"`
		P75    *float64 `json:"75%"`
		Max    *float64 `json:"max"`
	}{
		Column: s.Column,
		Count:  s.Count,
		Mean:   finite(s.Mean),
		Std:    finite(s.Std),
		Min:    finite(s.Min),
		P25:    finite(s.P25),
		P50:    finite(s.P50),
		P75:    finite(s.P75),
		Max:    finite(s.Max),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}
