// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/absmach/telequery/pkg/errors"
)

// MethodQuery is the only request method understood by the query service.
const MethodQuery = "query"

var (
	// ErrInvalidSort indicates a malformed sort specification.
	ErrInvalidSort = errors.New("invalid sort specification")

	// ErrInvalidDirection indicates a sort direction other than 1 or -1.
	ErrInvalidDirection = errors.New("sort direction must be 1 or -1")
)

// Payload is the body posted to the query endpoint.
type Payload struct {
	Auth    Auth    `json:"auth"`
	Request Request `json:"request"`
}

// Auth describes the credentials forwarded to the query service. The client
// never interprets these values.
type Auth struct {
	Target    string `json:"target"`
	AuthType  string `json:"authtype"`
	SecretKey string `json:"secret_key"`
}

// Request describes what the query service should return.
type Request struct {
	Method  string   `json:"method"`
	Query   Filter   `json:"query"`
	Project []string `json:"project"`
	Sort    Sort     `json:"sort"`
	// Limit caps the number of returned records; zero means no limit.
	Limit uint64 `json:"limit,omitempty"`
}

// MarshalJSON always emits query, project and sort, even when unset.
func (req Request) MarshalJSON() ([]byte, error) {
	type request Request
	r := request(req)
	if r.Query == nil {
		r.Query = Filter{}
	}
	if r.Project == nil {
		r.Project = []string{}
	}
	if r.Sort == nil {
		r.Sort = Sort{}
	}

	return json.Marshal(r)
}

// Filter is an opaque filter document forwarded to the query service.
type Filter map[string]interface{}

// Direction is the ordering applied to a sort field.
type Direction int

const (
	// Ascending sorts from the smallest to the largest value.
	Ascending Direction = 1
	// Descending sorts from the largest to the smallest value.
	Descending Direction = -1
)

// Validate checks that d is either Ascending or Descending.
func (d Direction) Validate() error {
	if d != Ascending && d != Descending {
		return errors.Wrap(ErrInvalidDirection, fmt.Errorf("got %d", d))
	}

	return nil
}

// SortField pairs a field name with its sort direction.
type SortField struct {
	Field     string
	Direction Direction
}

// Sort is an ordered sort specification. On the wire it is a JSON object
// whose key order carries the sort priority.
type Sort []SortField

// Asc appends an ascending field to s.
func (s Sort) Asc(field string) Sort {
	return append(s, SortField{Field: field, Direction: Ascending})
}

// Desc appends a descending field to s.
func (s Sort) Desc(field string) Sort {
	return append(s, SortField{Field: field, Direction: Descending})
}

// MarshalJSON writes s as a JSON object in priority order.
func (s Sort) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", f.Direction)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the order of its keys.
func (s *Sort) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(ErrInvalidSort, err)
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Wrap(ErrInvalidSort, fmt.Errorf("expected object, got %v", tok))
	}

	sort := Sort{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(ErrInvalidSort, err)
		}
		field, ok := tok.(string)
		if !ok {
			return errors.Wrap(ErrInvalidSort, fmt.Errorf("unexpected key %v", tok))
		}
		var dir Direction
		if err := dec.Decode(&dir); err != nil {
			return errors.Wrap(ErrInvalidSort, err)
		}
		sort = append(sort, SortField{Field: field, Direction: dir})
	}
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(ErrInvalidSort, err)
	}
	*s = sort

	return nil
}

// Validate checks every sort direction.
func (s Sort) Validate() error {
	for _, f := range s {
		if f.Field == "" {
			return errors.Wrap(ErrInvalidSort, errors.New("empty field name"))
		}
		if err := f.Direction.Validate(); err != nil {
			return err
		}
	}

	return nil
}
