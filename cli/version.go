// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/absmach/telequery"
	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// NewVersionCmd returns version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Telequery CLI version",
		Long:  `Print the version of the telequery CLI`,
		Run: func(cmd *cobra.Command, args []string) {
			logJSONCmd(*cmd, versionInfo{
				Version:   telequery.Version,
				Commit:    telequery.Commit,
				BuildTime: telequery.BuildTime,
			})
		},
	}
}
