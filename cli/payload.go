// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/absmach/telequery/pkg/errors"
	tqsdk "github.com/absmach/telequery/pkg/sdk/go"
)

const stdinPath = "-"

var errReadPayload = errors.New("failed to read query payload")

// readPayload loads a payload from a file, or from in when path is "-".
// Auth fields missing from the file are taken from the CLI flags and
// the request method defaults to query.
func readPayload(path string, in io.Reader) (tqsdk.Payload, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case stdinPath:
		data, err = io.ReadAll(in)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return tqsdk.Payload{}, errors.Wrap(errReadPayload, err)
	}

	var p tqsdk.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return tqsdk.Payload{}, errors.Wrap(errReadPayload, err)
	}

	if p.Auth.Target == "" {
		p.Auth.Target = Target
	}
	if p.Auth.AuthType == "" {
		p.Auth.AuthType = AuthType
	}
	if p.Auth.SecretKey == "" {
		p.Auth.SecretKey = Secret
	}
	if p.Request.Method == "" {
		p.Request.Method = tqsdk.MethodQuery
	}
	if Limit > 0 {
		p.Request.Limit = Limit
	}

	return p, nil
}
