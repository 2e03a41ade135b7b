// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absmach/telequery"
	"github.com/absmach/telequery/cli"
	"github.com/absmach/telequery/pkg/errors"
	tqsdk "github.com/absmach/telequery/pkg/sdk/go"
	sdkmocks "github.com/absmach/telequery/pkg/sdk/go/mocks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var records = []telequery.Record{
	{"time": "2023-05-01T10:00:00Z", "deviceID": "s1", "val1": json.Number("1"), "val2": json.Number("2")},
	{"time": "2023-05-01T10:01:00Z", "deviceID": "s1", "val1": json.Number("3"), "val2": json.Number("4")},
	{"time": "2023-05-01T10:00:00Z", "deviceID": "s2", "val1": json.Number("5"), "val2": json.Number("6")},
}

func newRoot(sub *cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "telequery-cli"}
	root.AddCommand(sub)

	return setFlags(root)
}

func TestQueryCmd(t *testing.T) {
	sdkMock := new(sdkmocks.SDK)
	cli.SetSDK(sdkMock)
	path := writePayload(t, payloadJSON)

	cases := []struct {
		desc     string
		args     []string
		records  []telequery.Record
		sdkerr   errors.SDKError
		contains []string
	}{
		{
			desc:     "query records",
			args:     []string{"query", path},
			records:  records,
			contains: []string{"deviceID", "2023-05-01T10:01:00Z"},
		},
		{
			desc:     "query records with raw output",
			args:     []string{"query", path, "--raw"},
			records:  records,
			contains: []string{`{"deviceID":"s2","time":"2023-05-01T10:00:00Z","val1":5,"val2":6}`},
		},
		{
			desc:     "query with server error",
			args:     []string{"query", path},
			sdkerr:   errors.NewSDKErrorWithStatus(errors.ErrAuthentication, http.StatusUnauthorized),
			contains: []string{"error", errors.ErrAuthentication.Error()},
		},
		{
			desc:     "query with missing payload file",
			args:     []string{"query", filepath.Join(t.TempDir(), "missing.json")},
			contains: []string{"failed to read query payload"},
		},
		{
			desc:     "query without payload",
			args:     []string{"query"},
			contains: []string{"usage"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			sdkCall := sdkMock.On("Query", mock.Anything, mock.Anything).Return(tc.records, tc.sdkerr)
			out := executeCommand(t, newRoot(cli.NewQueryCmd()), tc.args...)
			for _, c := range tc.contains {
				assert.Contains(t, out, c, fmt.Sprintf("%s: expected output to contain %s", tc.desc, c))
			}
			sdkCall.Unset()
		})
	}
}

func TestQueryCmdPayloadFromFlags(t *testing.T) {
	sdkMock := new(sdkmocks.SDK)
	cli.SetSDK(sdkMock)

	var got tqsdk.Payload
	sdkMock.On("Query", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(tqsdk.Payload)
	}).Return([]telequery.Record{}, nil)

	root := newRoot(cli.NewQueryCmd())
	root.SetIn(strings.NewReader(`{"request":{"project":["val1"]}}`))
	executeCommand(t, root, "query", "-", "--target", "site-2", "--authtype", "key", "--secret", "s3cr3t", "--limit", "5")

	assert.Equal(t, tqsdk.Auth{Target: "site-2", AuthType: "key", SecretKey: "s3cr3t"}, got.Auth)
	assert.Equal(t, tqsdk.MethodQuery, got.Request.Method)
	assert.Equal(t, uint64(5), got.Request.Limit)
	assert.Equal(t, []string{"val1"}, got.Request.Project)
}

func TestDescribeCmd(t *testing.T) {
	sdkMock := new(sdkmocks.SDK)
	cli.SetSDK(sdkMock)
	path := writePayload(t, payloadJSON)

	cases := []struct {
		desc     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			desc:     "describe grouped by device",
			args:     []string{"describe", path, "--group", "deviceID", "--time", "time", "--raw"},
			contains: []string{`"key":"s1"`, `"key":"s2"`, `"column":"val1"`, `"count":2`, `"mean":2`},
		},
		{
			desc:     "describe without groups",
			args:     []string{"describe", path, "--raw"},
			contains: []string{`"key":"all"`, `"count":3`},
			excludes: []string{`"key":"s1"`},
		},
		{
			desc:     "describe with unknown group column",
			args:     []string{"describe", path, "--group", "site"},
			contains: []string{"column not found"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			sdkCall := sdkMock.On("Query", mock.Anything, mock.Anything).Return(records, nil)
			out := executeCommand(t, newRoot(cli.NewDescribeCmd()), tc.args...)
			for _, c := range tc.contains {
				assert.Contains(t, out, c, fmt.Sprintf("%s: expected output to contain %s", tc.desc, c))
			}
			for _, c := range tc.excludes {
				assert.NotContains(t, out, c)
			}
			sdkCall.Unset()
		})
	}
}

func TestPlotCmd(t *testing.T) {
	sdkMock := new(sdkmocks.SDK)
	cli.SetSDK(sdkMock)
	path := writePayload(t, payloadJSON)
	dir := t.TempDir()

	cases := []struct {
		desc     string
		args     []string
		file     string
		magic    string
		contains string
	}{
		{
			desc:     "plot png",
			file:     filepath.Join(dir, "readings.png"),
			args:     []string{"plot", path, "--x", "time", "--y", "val1", "--group", "deviceID", "--time", "time", "--size", "10", "--alpha", "0.5"},
			magic:    "\x89PNG",
			contains: "readings.png",
		},
		{
			desc:     "plot svg",
			file:     filepath.Join(dir, "readings.svg"),
			args:     []string{"plot", path, "--x", "val1", "--y", "val2"},
			magic:    "<svg",
			contains: "readings.svg",
		},
		{
			desc:     "plot unsupported format",
			file:     filepath.Join(dir, "readings.gif"),
			args:     []string{"plot", path, "--x", "val1", "--y", "val2"},
			contains: "unsupported image format",
		},
		{
			desc:     "plot without y column",
			file:     filepath.Join(dir, "none.png"),
			args:     []string{"plot", path, "--x", "val1"},
			contains: "usage",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			sdkCall := sdkMock.On("Query", mock.Anything, mock.Anything).Return(records, nil)
			out := executeCommand(t, newRoot(cli.NewPlotCmd()), append(tc.args, "--out", tc.file)...)
			assert.Contains(t, out, tc.contains)
			if tc.magic != "" {
				data, err := os.ReadFile(tc.file)
				require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
				assert.True(t, strings.Contains(string(data[:64]), tc.magic))
			}
			sdkCall.Unset()
		})
	}
}

func TestHealthCmd(t *testing.T) {
	sdkMock := new(sdkmocks.SDK)
	cli.SetSDK(sdkMock)

	sdkMock.On("Health", mock.Anything).Return(telequery.HealthInfo{Status: "pass", InstanceID: "instance-1"}, nil)
	out := executeCommand(t, newRoot(cli.NewHealthCmd()), "health")
	assert.Contains(t, out, "instance-1")
}

func TestVersionCmd(t *testing.T) {
	out := executeCommand(t, newRoot(cli.NewVersionCmd()), "version", "--raw")
	assert.Contains(t, out, fmt.Sprintf(`"version":"%s"`, telequery.Version))
}
