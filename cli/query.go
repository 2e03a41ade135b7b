// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"
	"path/filepath"

	"github.com/absmach/telequery/analysis"
	"github.com/absmach/telequery/pkg/ndjson"
	"github.com/absmach/telequery/plot"
	"github.com/spf13/cobra"
)

// Readable by all user groups but writeable by the user only.
const imagePermission = 0o644

// NewQueryCmd returns the command that runs a query and prints its records.
func NewQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <payload.json|->",
		Short: "Run a query",
		Long: "Post a query payload and print the returned records\n" +
			"usage:\n" +
			"\ttelequery-cli query payload.json\n" +
			"\tcat payload.json | telequery-cli query - --raw",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			payload, err := readPayload(args[0], cmd.InOrStdin())
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			records, err := svc.Query(cmd.Context(), payload)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			if RawOutput {
				if err := ndjson.Encode(cmd.OutOrStdout(), records); err != nil {
					logErrorCmd(*cmd, err)
				}
				return
			}
			logJSONCmd(*cmd, records)
		},
	}
}

// NewDescribeCmd returns the command that prints grouped summary statistics.
func NewDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <payload.json|->",
		Short: "Summarize query results",
		Long: "Run a query and print count, mean, std, min, quartiles and max\n" +
			"of every numeric column, per group\n" +
			"usage:\n" +
			"\ttelequery-cli describe payload.json --group deviceID --time time",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			payload, err := readPayload(args[0], cmd.InOrStdin())
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			rep, err := svc.Analyze(cmd.Context(), payload, analysis.AnalyzeRequest{
				GroupBy:    GroupBy,
				TimeColumn: TimeColumn,
				TimeLayout: TimeLayout,
			})
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, rep)
		},
	}
}

// NewPlotCmd returns the command that renders a grouped scatter chart.
func NewPlotCmd() *cobra.Command {
	var (
		x, y, out, title string
		opts             plot.Options
	)

	cmd := &cobra.Command{
		Use:   "plot <payload.json|->",
		Short: "Plot query results",
		Long: "Run a query and render a scatter chart of y against x, one colour per group\n" +
			"usage:\n" +
			"\ttelequery-cli plot payload.json --x time --y val1 --group deviceID --time time --out readings.png",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 || x == "" || y == "" {
				logUsageCmd(*cmd, cmd.Use+" --x <column> --y <column>")
				return
			}

			payload, err := readPayload(args[0], cmd.InOrStdin())
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			format, err := plot.ParseFormat(filepath.Ext(out))
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			opts.Format = format
			opts.Title = title

			rep, err := svc.Analyze(cmd.Context(), payload, analysis.AnalyzeRequest{
				GroupBy:    GroupBy,
				TimeColumn: TimeColumn,
				TimeLayout: TimeLayout,
				Plot:       &analysis.PlotRequest{X: x, Y: y, Options: opts},
			})
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			if err := os.WriteFile(out, rep.Image, imagePermission); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logCreatedCmd(*cmd, out)
		},
	}

	cmd.Flags().StringVar(&x, "x", "", "Column plotted on the x axis")
	cmd.Flags().StringVar(&y, "y", "", "Column plotted on the y axis")
	cmd.Flags().StringVar(&out, "out", "plot.png", "Output image file, .png or .svg")
	cmd.Flags().StringVar(&title, "title", "", "Chart title")
	cmd.Flags().StringVar(&opts.XLabel, "xlabel", "", "X axis label, defaults to the column name")
	cmd.Flags().StringVar(&opts.YLabel, "ylabel", "", "Y axis label, defaults to the column name")
	cmd.Flags().Float64Var(&opts.PointSize, "size", 10, "Point size in pixels")
	cmd.Flags().Float64Var(&opts.Alpha, "alpha", 0.5, "Point opacity between 0 and 1")
	cmd.Flags().BoolVar(&opts.Grid, "grid", true, "Draw grid lines")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Image height in pixels")

	return cmd
}
