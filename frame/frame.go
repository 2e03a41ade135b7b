// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package frame loads query results into a column oriented table and computes
// grouped descriptive statistics over it.
package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
)

var (
	// ErrColumnNotFound indicates that the frame has no column with the given name.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidTime indicates that a cell could not be converted to a timestamp.
	ErrInvalidTime = errors.New("invalid time value")

	// ErrNotNumeric indicates that a column holds non numeric values.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Frame is a table built from a sequence of records. Missing cells hold nil.
type Frame struct {
	columns []string
	cells   map[string][]interface{}
	rows    int
}

// New builds a frame from records. Columns keep the order of the record
// that introduced them. JSON numbers are stored as float64 when
// they fit, and as their literal text otherwise.
func New(records []telequery.Record) *Frame {
	f := &Frame{
		cells: make(map[string][]interface{}),
		rows:  len(records),
	}

	for i, rec := range records {
		var added []string
		for k := range rec {
			if _, ok := f.cells[k]; !ok {
				f.cells[k] = make([]interface{}, len(records))
				added = append(added, k)
			}
		}
		// Records carry no field order, so columns first seen together are sorted.
		sort.Strings(added)
		f.columns = append(f.columns, added...)
		for k, v := range rec {
			f.cells[k][i] = normalize(v)
		}
	}

	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Columns returns the column names.
func (f *Frame) Columns() []string {
	cols := make([]string, len(f.columns))
	copy(cols, f.columns)

	return cols
}

// Column returns the raw cells of the named column.
func (f *Frame) Column(name string) ([]interface{}, error) {
	col, ok := f.cells[name]
	if !ok {
		return nil, errors.Wrap(ErrColumnNotFound, errors.New(name))
	}
	cp := make([]interface{}, len(col))
	copy(cp, col)

	return cp, nil
}

// Floats returns the named column as float64 values. Null cells become NaN.
func (f *Frame) Floats(name string) ([]float64, error) {
	col, ok := f.cells[name]
	if !ok {
		return nil, errors.Wrap(ErrColumnNotFound, errors.New(name))
	}

	vals := make([]float64, len(col))
	for i, c := range col {
		if c == nil {
			vals[i] = math.NaN()
			continue
		}
		v, ok := toFloat(c)
		if !ok {
			return nil, errors.Wrap(ErrNotNumeric, fmt.Errorf("%s row %d: %v", name, i, c))
		}
		vals[i] = v
	}

	return vals, nil
}

// Times returns the named column as timestamps. The column must have been
// converted with ParseTime first; null cells become the zero time.
func (f *Frame) Times(name string) ([]time.Time, error) {
	col, ok := f.cells[name]
	if !ok {
		return nil, errors.Wrap(ErrColumnNotFound, errors.New(name))
	}

	vals := make([]time.Time, len(col))
	for i, c := range col {
		switch t := c.(type) {
		case nil:
		case time.Time:
			vals[i] = t
		default:
			return nil, errors.Wrap(ErrInvalidTime, fmt.Errorf("%s row %d: %v", name, i, c))
		}
	}

	return vals, nil
}

// IsTime reports whether every non null cell of the column is a timestamp.
func (f *Frame) IsTime(name string) bool {
	col, ok := f.cells[name]
	if !ok {
		return false
	}
	seen := false
	for _, c := range col {
		if c == nil {
			continue
		}
		if _, ok := c.(time.Time); !ok {
			return false
		}
		seen = true
	}

	return seen
}

// ParseTime converts the named column to timestamps in place. Strings are
// parsed with layout, or with a set of common layouts when layout is empty.
// Numbers are read as unix seconds. Null cells stay null.
func (f *Frame) ParseTime(name, layout string) error {
	col, ok := f.cells[name]
	if !ok {
		return errors.Wrap(ErrColumnNotFound, errors.New(name))
	}

	parsed := make([]interface{}, len(col))
	for i, c := range col {
		t, err := toTime(c, layout)
		if err != nil {
			return errors.Wrap(ErrInvalidTime, fmt.Errorf("%s row %d: %w", name, i, err))
		}
		if c != nil {
			parsed[i] = t
		}
	}
	f.cells[name] = parsed

	return nil
}

// Row returns the record at position i, skipping null cells.
func (f *Frame) Row(i int) telequery.Record {
	rec := make(telequery.Record)
	for _, c := range f.columns {
		if v := f.cells[c][i]; v != nil {
			rec[c] = v
		}
	}

	return rec
}

// take returns a new frame holding the given rows, in order, with the same columns.
func (f *Frame) take(rows []int) *Frame {
	sub := &Frame{
		columns: f.columns,
		cells:   make(map[string][]interface{}, len(f.columns)),
		rows:    len(rows),
	}
	for _, c := range f.columns {
		src := f.cells[c]
		dst := make([]interface{}, len(rows))
		for i, r := range rows {
			dst[i] = src[r]
		}
		sub.cells[c] = dst
	}

	return sub
}

// numeric reports whether the column holds at least one number and nothing
// but numbers and nulls. Booleans are not numeric.
func (f *Frame) numeric(name string) bool {
	seen := false
	for _, c := range f.cells[name] {
		if c == nil {
			continue
		}
		if _, ok := toFloat(c); !ok {
			return false
		}
		seen = true
	}

	return seen
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func toTime(c interface{}, layout string) (time.Time, error) {
	switch v := c.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		if layout != "" {
			return time.Parse(layout, v)
		}
		var err error
		for _, l := range timeLayouts {
			var t time.Time
			if t, err = time.Parse(l, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, err
	}

	secs, ok := toFloat(c)
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported value %v", c)
	}
	whole, frac := math.Modf(secs)

	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC(), nil
}

func normalize(v interface{}) interface{} {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return f
	}

	return n.String()
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
