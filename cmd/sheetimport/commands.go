package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-sheet/internal/config"
	"github.com/shapestone/shape-sheet/internal/logging"
	"github.com/shapestone/shape-sheet/internal/sink"
	"github.com/shapestone/shape-sheet/pkg/importer"
	"github.com/shapestone/shape-sheet/pkg/sheet"
	"github.com/shapestone/shape-sheet/pkg/source"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "sheetimport",
		Short: "Import spreadsheet exports as typed rows",
		Long: `sheetimport reads spreadsheet CSV exports (rows separated by CR LF) from
a spreadsheet URL or a local .csv/.xlsx file and writes the rows as JSON,
YAML or TOML.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.logLevel, opts.logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text, json")

	rootCmd.AddCommand(newTableCmd(), newCellCmd(), newRunCmd())
	return rootCmd
}

func newTableCmd() *cobra.Command {
	var (
		format        string
		sheetName     string
		spreadsheetID string
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "table <file|url>",
		Short: "Print the data rows of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := sink.ParseFormat(format)
			if err != nil {
				return err
			}

			spec := source.Spec{Sheet: sheetName}
			if isURL(args[0]) {
				spec.URL = args[0]
			} else {
				spec.Path = args[0]
			}

			fetcher := &source.Fetcher{SpreadsheetID: spreadsheetID, Timeout: timeout}
			table, err := fetcher.Table(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return sink.Encode(cmd.OutOrStdout(), f, table)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml, toml")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet of an .xlsx file (default: first)")
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "Replace the spreadsheet id of the URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Fetch timeout")
	return cmd
}

func newCellCmd() *cobra.Command {
	var shapeName string

	cmd := &cobra.Command{
		Use:   "cell <text>",
		Short: "Show how a cell is read with the cell grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := sheet.ParseShape(shapeName)
			if err != nil {
				return err
			}
			cell, err := sheet.ParseCell(args[0], shape)
			if err != nil {
				return err
			}

			out, err := cellJSON(cell)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVarP(&shapeName, "shape", "s", "list", "Cell shape: scalar, list, map, pair")
	return cmd
}

// cellJSON encodes a cell value; maps keep their entry order.
func cellJSON(cell sheet.CellValue) ([]byte, error) {
	var value any
	switch cell.Shape {
	case sheet.ShapeScalar:
		value = cell.Scalar
	case sheet.ShapeList:
		value = cell.List
	case sheet.ShapePair:
		value = cell.Pair
	case sheet.ShapeMap:
		row, err := sheet.NewRow(cell.Map.Keys, cell.Map.Values)
		if err != nil {
			return nil, err
		}
		value = row
	}

	return json.Marshal(struct {
		Shape string `json:"shape"`
		Value any    `json:"value"`
	}{cell.Shape.String(), value})
}

func newRunCmd() *cobra.Command {
	var (
		configPath    string
		spreadsheetID string
	)

	cmd := &cobra.Command{
		Use:   "run [names...]",
		Short: "Import the configured sheets, or only the named ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-format") {
				logging.Setup(cfg.Log.Level, cfg.Log.Format)
			}
			if spreadsheetID != "" {
				cfg.SpreadsheetID = spreadsheetID
			}

			reg, err := registryFor(cfg)
			if err != nil {
				return err
			}

			report, err := reg.Run(cmd.Context(), args...)
			for _, res := range report.Results {
				status := "ok"
				switch {
				case res.Err != nil:
					status = "failed: " + res.Err.Error()
				case res.Skipped:
					status = "skipped: no data rows"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %6d rows  %s\n", res.Name, res.Rows, status)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sheets.yaml", "Configuration file")
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "Replace the spreadsheet id of every sheet URL")
	return cmd
}

// registryFor registers one table importer per configured sheet. Each
// importer writes the row table to the sheet's output file.
func registryFor(cfg *config.Config) (*importer.Registry, error) {
	reg := importer.NewRegistry(&source.Fetcher{
		SpreadsheetID: cfg.SpreadsheetID,
		Timeout:       cfg.Timeout.Std(),
	})

	for _, s := range cfg.Sheets {
		output := s.Output
		imp := importer.NewTable(s.Name, source.Spec{URL: s.URL, Path: s.Path, Sheet: s.Sheet},
			func(_ context.Context, table sheet.Table) error {
				return sink.WriteFile(output, table)
			})

		order := importer.Unordered
		if s.Order != nil {
			order = *s.Order
		}
		if err := reg.Register(imp, order); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
