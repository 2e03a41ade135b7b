// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package frame_test

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/frame"
	"github.com/absmach/telequery/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBy(t *testing.T) {
	cases := []struct {
		desc    string
		records []telequery.Record
		by      string
		keys    []string
		sizes   []int
		err     error
	}{
		{
			desc:    "two devices",
			records: readings(),
			by:      "deviceID",
			keys:    []string{"s1", "s2"},
			sizes:   []int{4, 2},
		},
		{
			desc: "numeric keys sort by value",
			records: []telequery.Record{
				{"k": json.Number("10")}, {"k": json.Number("9")}, {"k": json.Number("10.0")},
			},
			by:    "k",
			keys:  []string{"9", "10"},
			sizes: []int{1, 2},
		},
		{
			desc: "null keys are dropped",
			records: []telequery.Record{
				{"k": "a"}, {"k": nil}, {"v": 1.0},
			},
			by:    "k",
			keys:  []string{"a"},
			sizes: []int{1},
		},
		{
			desc:    "no records",
			records: []telequery.Record{},
			by:      "k",
			err:     frame.ErrColumnNotFound,
		},
		{
			desc:    "missing column",
			records: readings(),
			by:      "site",
			err:     frame.ErrColumnNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			gs, err := frame.New(tc.records).GroupBy(tc.by)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected %s, got %s", tc.err, err))
				return
			}
			require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			assert.Equal(t, tc.keys, gs.Keys())
			require.Equal(t, len(tc.sizes), gs.Len())
			for i, g := range gs.Groups {
				assert.Equal(t, tc.sizes[i], g.Frame.Len())
			}
		})
	}
}

func TestGroupMembership(t *testing.T) {
	gs, err := frame.New(readings()).GroupBy("deviceID")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	for _, g := range gs.Groups {
		ids, err := g.Frame.Column("deviceID")
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
		for _, id := range ids {
			assert.Equal(t, g.Key, id)
		}
	}

	// Rows keep their frame order inside a group.
	vals, err := gs.Groups[0].Frame.Floats("val1")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, []float64{1, 2, 3, 4}, vals)
}

func TestDescribe(t *testing.T) {
	gs, err := frame.New(readings()).GroupBy("deviceID")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	sums := gs.Describe()
	require.Len(t, sums, 2)

	s1 := sums[0]
	assert.Equal(t, "s1", s1.Key)
	require.Len(t, s1.Columns, 2)

	val1 := s1.Columns[0]
	assert.Equal(t, "val1", val1.Column)
	assert.Equal(t, 4, val1.Count)
	assert.InDelta(t, 2.5, val1.Mean, 1e-9)
	assert.InDelta(t, 1.2909944487, val1.Std, 1e-9)
	assert.Equal(t, 1.0, val1.Min)
	assert.InDelta(t, 1.75, val1.P25, 1e-9)
	assert.InDelta(t, 2.5, val1.P50, 1e-9)
	assert.InDelta(t, 3.25, val1.P75, 1e-9)
	assert.Equal(t, 4.0, val1.Max)

	val2 := s1.Columns[1]
	assert.Equal(t, "val2", val2.Column)
	assert.Equal(t, 3, val2.Count)
	assert.InDelta(t, 2.5, val2.Mean, 1e-9)
	assert.InDelta(t, 1.5, val2.P25, 1e-9)

	s2 := sums[1]
	assert.Equal(t, "s2", s2.Key)
	assert.Equal(t, 1, s2.Columns[1].Count)
	assert.True(t, math.IsNaN(s2.Columns[1].Std))
	assert.Equal(t, 1.5, s2.Columns[1].P75)
}

func TestDescribeSkipsNonNumeric(t *testing.T) {
	f := frame.New([]telequery.Record{
		{"id": "a", "ok": true, "v": 1.0, "mixed": 1.0},
		{"id": "a", "ok": false, "v": 3.0, "mixed": "x"},
	})

	stats := f.Describe()
	require.Len(t, stats, 1)
	assert.Equal(t, "v", stats[0].Column)
	assert.Equal(t, 2.0, stats[0].Mean)
}

func TestStatsMarshalJSON(t *testing.T) {
	f := frame.New([]telequery.Record{{"v": 7.0}})
	data, err := json.Marshal(f.Describe())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.JSONEq(t, `[{"column":"v","count":1,"mean":7,"std":null,"min":7,"25%":7,"50%":7,"75%":7,"max":7}]`, string(data))
}
