// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains the telequery command line client.
package main

import (
	"log"
	"os"

	"github.com/absmach/telequery/analysis"
	"github.com/absmach/telequery/analysis/api"
	"github.com/absmach/telequery/cli"
	"github.com/absmach/telequery/internal"
	tqlog "github.com/absmach/telequery/logger"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

const svcName = "telequery_cli"

func main() {
	sdkConf := sdk.Config{}
	logLevel := "error"

	// Root
	rootCmd := &cobra.Command{
		Use:   "telequery-cli",
		Short: "telequery-cli queries telemetry and summarizes the results",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			conf, err := cli.ParseConfig(sdkConf)
			if err != nil {
				log.Fatalf("Failed to parse config: %s", err)
			}
			client := sdk.NewSDK(conf)
			cli.SetSDK(client)

			logger, err := tqlog.New(os.Stderr, logLevel)
			if err != nil {
				log.Fatalf("Failed to init logger: %s", err)
			}
			cli.SetService(newService(client, logger))
		},
	}

	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})

	// API commands
	queryCmd := cli.NewQueryCmd()
	describeCmd := cli.NewDescribeCmd()
	plotCmd := cli.NewPlotCmd()
	healthCmd := cli.NewHealthCmd()
	versionCmd := cli.NewVersionCmd()
	configCmd := cli.NewConfigCmd()

	// Root Commands
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)

	// Root Flags
	rootCmd.PersistentFlags().StringVarP(
		&sdkConf.HostURL,
		"host-url",
		"u",
		"",
		"Query service base URL, defaults to the config file value",
	)

	rootCmd.PersistentFlags().DurationVar(
		&sdkConf.Timeout,
		"timeout",
		0,
		"Request timeout, zero waits for the server",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&sdkConf.TLSVerification,
		"tls-verification",
		"y",
		false,
		"Verify the server TLS certificate",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&sdkConf.CurlFlag,
		"curl",
		"x",
		false,
		"Print the equivalent curl command of each request",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.ConfigPath,
		"config",
		"c",
		"",
		"Config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		false,
		"Enables raw output mode for easier parsing of output",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		logLevel,
		"Log level written to stderr: debug, info, warn or error",
	)

	// Payload Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.Target,
		"target",
		"t",
		"",
		"Auth target, used when the payload has none",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.AuthType,
		"authtype",
		"a",
		"",
		"Auth type, used when the payload has none",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.Secret,
		"secret",
		"s",
		"",
		"Auth secret key, used when the payload has none",
	)

	rootCmd.PersistentFlags().Uint64VarP(
		&cli.Limit,
		"limit",
		"l",
		0,
		"Limit the number of records, overrides the payload",
	)

	// Analysis Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.GroupBy,
		"group",
		"g",
		"",
		"Column to group records by",
	)

	rootCmd.PersistentFlags().StringVar(
		&cli.TimeColumn,
		"time",
		"",
		"Column holding timestamps",
	)

	rootCmd.PersistentFlags().StringVar(
		&cli.TimeLayout,
		"time-layout",
		"",
		"Go time layout of the timestamp column, RFC 3339 by default",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newService(client sdk.SDK, logger tqlog.Logger) analysis.Service {
	svc := analysis.NewService(client)
	svc = api.LoggingMiddleware(svc, logger)
	counter, latency := internal.MakeMetrics(svcName, "analysis")
	svc = api.MetricsMiddleware(svc, counter, latency)

	return svc
}
