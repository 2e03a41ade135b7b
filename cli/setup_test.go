// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/telequery/cli"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadJSON = `{
  "auth": {"target": "site-1", "authtype": "key", "secret_key": "secret"},
  "request": {
    "method": "query",
    "query": {},
    "project": ["time", "deviceID", "val1", "val2"],
    "sort": {"deviceID": 1, "time": 1}
  }
}`

func executeCommand(t *testing.T, root *cobra.Command, args ...string) string {
	buffer := new(bytes.Buffer)
	root.SetOut(buffer)
	root.SetErr(buffer)
	root.SetArgs(args)
	err := root.Execute()
	assert.NoError(t, err, "Error executing command")
	return buffer.String()
}

func setFlags(rootCmd *cobra.Command) *cobra.Command {
	cli.RawOutput = false
	cli.Target, cli.AuthType, cli.Secret = "", "", ""
	cli.GroupBy, cli.TimeColumn, cli.TimeLayout = "", "", ""
	cli.Limit = 0

	rootCmd.PersistentFlags().BoolVarP(&cli.RawOutput, "raw", "r", false, "Enables raw output mode for easier parsing of output")
	rootCmd.PersistentFlags().StringVar(&cli.Target, "target", "", "Auth target")
	rootCmd.PersistentFlags().StringVar(&cli.AuthType, "authtype", "", "Auth type")
	rootCmd.PersistentFlags().StringVar(&cli.Secret, "secret", "", "Auth secret key")
	rootCmd.PersistentFlags().Uint64VarP(&cli.Limit, "limit", "l", 0, "Limit the number of records")
	rootCmd.PersistentFlags().StringVarP(&cli.GroupBy, "group", "g", "", "Grouping column")
	rootCmd.PersistentFlags().StringVar(&cli.TimeColumn, "time", "", "Timestamp column")
	rootCmd.PersistentFlags().StringVar(&cli.TimeLayout, "time-layout", "", "Timestamp layout")

	return rootCmd
}

func writePayload(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "payload.json")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}
