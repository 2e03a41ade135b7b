// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/absmach/telequery/pkg/errors"
)

// Group holds the rows sharing one value of the grouping column.
type Group struct {
	// Key is the grouping value, rendered as text.
	Key string

	// Value is the grouping value as stored in the frame.
	Value interface{}

	Frame *Frame
}

// Groups is the result of splitting a frame by one column. Groups are
// ordered by ascending key and rows with a null key are dropped.
type Groups struct {
	By     string
	Groups []Group

	parent *Frame
}

// Len returns the number of groups.
func (gs Groups) Len() int {
	return len(gs.Groups)
}

// Keys returns the group keys in order.
func (gs Groups) Keys() []string {
	keys := make([]string, len(gs.Groups))
	for i, g := range gs.Groups {
		keys[i] = g.Key
	}

	return keys
}

type groupKey struct {
	kind  int
	label string
}

const (
	kindNumber = iota
	kindBool
	kindTime
	kindString
	kindOther
)

// GroupBy splits the frame by the values of the named column. Each group
// keeps its rows in frame order.
func (f *Frame) GroupBy(name string) (Groups, error) {
	col, ok := f.cells[name]
	if !ok {
		return Groups{}, errors.Wrap(ErrColumnNotFound, errors.New(name))
	}

	index := make(map[groupKey]int)
	var (
		values []interface{}
		keys   []groupKey
		rows   [][]int
	)
	for i, c := range col {
		if c == nil {
			continue
		}
		k := keyOf(c)
		pos, ok := index[k]
		if !ok {
			pos = len(keys)
			index[k] = pos
			keys = append(keys, k)
			values = append(values, c)
			rows = append(rows, nil)
		}
		rows[pos] = append(rows[pos], i)
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return less(values[order[a]], keys[order[a]], values[order[b]], keys[order[b]])
	})

	gs := Groups{By: name, parent: f}
	for _, pos := range order {
		gs.Groups = append(gs.Groups, Group{
			Key:   keys[pos].label,
			Value: values[pos],
			Frame: f.take(rows[pos]),
		})
	}

	return gs, nil
}

func keyOf(v interface{}) groupKey {
	if n, ok := toFloat(v); ok {
		return groupKey{kind: kindNumber, label: strconv.FormatFloat(n, 'g', -1, 64)}
	}
	switch t := v.(type) {
	case bool:
		return groupKey{kind: kindBool, label: strconv.FormatBool(t)}
	case time.Time:
		return groupKey{kind: kindTime, label: t.Format(time.RFC3339Nano)}
	case string:
		return groupKey{kind: kindString, label: t}
	default:
		return groupKey{kind: kindOther, label: fmt.Sprint(t)}
	}
}

func less(a interface{}, ka groupKey, b interface{}, kb groupKey) bool {
	if ka.kind != kb.kind {
		return ka.kind < kb.kind
	}
	switch ka.kind {
	case kindNumber:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return x < y
	case kindBool:
		return !a.(bool) && b.(bool)
	case kindTime:
		return a.(time.Time).Before(b.(time.Time))
	default:
		return ka.label < kb.label
	}
}

// All returns the whole frame as a single group with the given key.
func (f *Frame) All(key string) Groups {
	rows := make([]int, f.rows)
	for i := range rows {
		rows[i] = i
	}

	return Groups{
		Groups: []Group{{Key: key, Value: key, Frame: f.take(rows)}},
		parent: f,
	}
}
