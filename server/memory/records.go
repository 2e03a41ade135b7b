// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package memory contains an in-memory record repository, loaded from an
// NDJSON file, that supports equality filters.
package memory

import (
	"context"
	"os"
	"reflect"
	"sort"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
	"github.com/absmach/telequery/pkg/ndjson"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/server"
)

var errLoad = errors.New("failed to load records file")

var _ server.Repository = (*recordRepository)(nil)

// recordRepository is read only after construction.
type recordRepository struct {
	records []telequery.Record
}

// New returns a repository serving the given records.
func New(records []telequery.Record) server.Repository {
	return &recordRepository{records: records}
}

// Load returns a repository serving the records of an NDJSON file.
func Load(path string) (server.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errLoad, err)
	}
	records, err := ndjson.Decode(data)
	if err != nil {
		return nil, errors.Wrap(errLoad, err)
	}

	return New(records), nil
}

func (repo *recordRepository) Query(ctx context.Context, req sdk.Request) ([]telequery.Record, error) {
	var matched []telequery.Record
	for _, rec := range repo.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if matches(rec, req.Query) {
			matched = append(matched, rec)
		}
	}

	if len(req.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, f := range req.Sort {
				c := compare(matched[i][f.Field], matched[j][f.Field])
				if c != 0 {
					return c*int(f.Direction) < 0
				}
			}
			return false
		})
	}

	if req.Limit > 0 && uint64(len(matched)) > req.Limit {
		matched = matched[:req.Limit]
	}

	results := make([]telequery.Record, len(matched))
	for i, rec := range matched {
		results[i] = project(rec, req.Project)
	}

	return results, nil
}

// matches reports whether every filter field equals the record field. A null
// filter value matches both null and missing fields.
func matches(rec telequery.Record, filter sdk.Filter) bool {
	for k, want := range filter {
		got, ok := rec[k]
		if want == nil {
			if ok && got != nil {
				return false
			}
			continue
		}
		if !ok || !equal(got, want) {
			return false
		}
	}

	return true
}

func project(rec telequery.Record, fields []string) telequery.Record {
	if len(fields) == 0 {
		return rec.Copy()
	}

	out := make(telequery.Record, len(fields))
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}

	return out
}

// equal compares JSON values. Numbers match across representations, and
// objects and arrays are compared element by element.
func equal(a, b interface{}) bool {
	x, xok := number(a)
	y, yok := number(b)
	if xok || yok {
		return xok && yok && x == y
	}

	if am, ok := object(a); ok {
		bm, ok := object(b)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !equal(av, bv) {
				return false
			}
		}
		return true
	}

	if as, ok := a.([]interface{}); ok {
		bs, ok := b.([]interface{})
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

func object(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case telequery.Record:
		return m, true
	case sdk.Filter:
		return m, true
	default:
		return nil, false
	}
}
