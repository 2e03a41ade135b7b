// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package ndjson decodes and encodes newline-delimited JSON streams where
// every line carries exactly one JSON object.
package ndjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/pkg/errors"
)

// ContentType is the media type used for NDJSON bodies.
const ContentType = "application/x-ndjson"

// maxContent bounds the line content kept in a LineError.
const maxContent = 256

var (
	// ErrDecode indicates that an NDJSON body could not be decoded.
	ErrDecode = errors.New("failed to decode ndjson")

	// ErrBlankLine indicates an empty line in the middle of a stream.
	ErrBlankLine = errors.New("unexpected blank line")

	// ErrTrailingData indicates content after the JSON object on the same line.
	ErrTrailingData = errors.New("unexpected data after json object")

	// ErrEncode indicates that a record could not be written as NDJSON.
	ErrEncode = errors.New("failed to encode ndjson")

	newline = []byte("\n")
)

var _ errors.Error = (*LineError)(nil)

// LineError reports which line of a stream failed to decode and why.
type LineError struct {
	// Line is the 1-based line number.
	Line int
	// Content holds the offending line, truncated for very long lines.
	Content string
	cause   errors.Error
}

func newLineError(line int, content []byte, cause error) *LineError {
	c := string(content)
	if len(c) > maxContent {
		c = c[:maxContent] + "..."
	}
	le := &LineError{Line: line, Content: c}
	if e, ok := cause.(errors.Error); ok {
		le.cause = e
		return le
	}
	le.cause = errors.New(cause.Error())

	return le
}

func (le *LineError) Error() string {
	return fmt.Sprintf("%s : %s", le.Msg(), le.cause.Error())
}

// Msg returns the location part of the error.
func (le *LineError) Msg() string {
	return fmt.Sprintf("line %d %q", le.Line, le.Content)
}

// Err returns the reason the line was rejected.
func (le *LineError) Err() errors.Error {
	return le.cause
}

// Unwrap exposes the reason to errors.Is and errors.As.
func (le *LineError) Unwrap() error {
	return le.cause
}

func (le *LineError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Line    int    `json:"line"`
		Content string `json:"content"`
		Err     string `json:"error"`
	}{
		Line:    le.Line,
		Content: le.Content,
		Err:     le.cause.Error(),
	})
}

// Decode splits body on line boundaries and decodes every line as a JSON
// object, preserving stream order. An empty or whitespace only body yields an
// empty result. A single trailing blank line is dropped; any other blank line
// is rejected. Numbers are kept as json.Number so integers survive intact.
func Decode(body []byte) ([]telequery.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []telequery.Record{}, nil
	}

	lines := bytes.Split(body, newline)
	if last := lines[len(lines)-1]; len(bytes.TrimSpace(last)) == 0 {
		lines = lines[:len(lines)-1]
	}

	records := make([]telequery.Record, 0, len(lines))
	for i, line := range lines {
		line = bytes.TrimSuffix(line, []byte("\r"))
		rec, err := decodeLine(line)
		if err != nil {
			return nil, errors.Wrap(ErrDecode, newLineError(i+1, line, err))
		}
		records = append(records, rec)
	}

	return records, nil
}

func decodeLine(line []byte) (telequery.Record, error) {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, ErrBlankLine
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var rec telequery.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("json null is not an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}

	return rec, nil
}

// Encoder writes records as NDJSON.
type Encoder struct {
	w   io.Writer
	enc *json.Encoder
}

// NewEncoder returns an encoder that writes one line per record to w.
func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	return &Encoder{w: w, enc: enc}
}

// Encode writes v followed by a newline.
func (e *Encoder) Encode(v interface{}) error {
	if err := e.enc.Encode(v); err != nil {
		return errors.Wrap(ErrEncode, err)
	}

	return nil
}

// Encode writes all records to w, one JSON object per line.
func Encode(w io.Writer, records []telequery.Record) error {
	enc := NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	return nil
}
