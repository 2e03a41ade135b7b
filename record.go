// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package telequery

// Record represents a single result returned by the query service. The shape
// of a record is defined by the server and the requested projection.
type Record map[string]interface{}

// Copy returns a shallow copy of the record.
func (r Record) Copy() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}

	return cp
}
