package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabql-org/tabql/config"
	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/helpers"
	"github.com/tabql-org/tabql/schema"
	"github.com/tabql-org/tabql/service"
)

// ============================================================================
// TABQL CLI — ask questions of a CSV from the command line
// ============================================================================

const version = "0.1.0"

var (
	flagFile   string
	flagQuery  string
	flagFormat string
	flagOut    string
	flagConfig string
	flagChart  bool
)

func main() {
	root := &cobra.Command{
		Use:   "tabql",
		Short: "Natural-language questions over tabular data",
		Long: `tabql answers natural-language questions about CSV data.

A question is resolved into a structured query intent — by Gemini when
GEMINI_API_KEY is set, by deterministic keyword rules otherwise — then
aggregated locally. No SQL is ever executed.`,
		SilenceUsage: true,
	}

	askCmd := &cobra.Command{
		Use:   "ask",
		Short: "Run a query against a CSV file",
		Example: `  tabql ask --file sales.csv --query "total cost by indication"
  tabql ask --file sales.csv --query "average price" --format text
  tabql ask --file sales.csv --query "cost breakdown" --chart --format pretty`,
		RunE: runAsk,
	}
	askCmd.Flags().StringVar(&flagFile, "file", "", "path to CSV data file (required)")
	askCmd.Flags().StringVar(&flagQuery, "query", "", "natural language query (required)")
	askCmd.Flags().StringVar(&flagFormat, "format", "json", "output format: json, pretty, text, csv")
	askCmd.Flags().StringVar(&flagOut, "out", "", "write output to file instead of stdout")
	askCmd.Flags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	askCmd.Flags().BoolVar(&flagChart, "chart", false, "also emit a chart spec")
	askCmd.MarkFlagRequired("file")
	askCmd.MarkFlagRequired("query")

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the inferred column descriptors for a CSV file",
		RunE:  runSchema,
	}
	schemaCmd.Flags().StringVar(&flagFile, "file", "", "path to CSV data file (required)")
	schemaCmd.Flags().StringVar(&flagFormat, "format", "pretty", "output format: json, pretty")
	schemaCmd.MarkFlagRequired("file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the tabql version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tabql %s\n", version)
		},
	}

	root.AddCommand(askCmd, schemaCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// ============================================================================
// COMMANDS
// ============================================================================

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	data, err := os.ReadFile(flagFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	svc := service.New(cfg)
	ingest := svc.IngestCSV(data, flagFile)
	if !ingest.Success {
		return fmt.Errorf("%s: %s", ingest.Error, ingest.Details)
	}

	ctx := context.Background()
	analysis := svc.Query(ctx, service.Request{
		Query:     flagQuery,
		DatasetID: ingest.DatasetID,
	})
	if !analysis.Success {
		return fmt.Errorf("%s: %s", analysis.Error, analysis.Details)
	}

	var chart *service.ChartResponse
	if flagChart && analysis.Intent != nil {
		resp := svc.Chart(ctx, service.ChartRequest{
			Query:  flagQuery,
			Intent: *analysis.Intent,
			Result: analysis.Result,
		})
		chart = &resp
	}

	writer, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	defer closeFn()

	switch flagFormat {
	case "csv":
		return writeResultCSV(writer, analysis)
	case "text":
		fmt.Fprintln(writer, analysis.Interpretation)
		fmt.Fprintln(writer, analysis.SQL)
		return writeResultCSV(writer, analysis)
	default:
		out := cliOutput{
			Query:    flagQuery,
			Analysis: analysis,
			Chart:    chart,
		}
		return writeJSON(writer, out, flagFormat)
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(flagFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	rows, _, err := helpers.ParseCSV(data)
	if err != nil {
		return err
	}

	cols := schema.Infer(rows)
	return writeJSON(os.Stdout, cols, flagFormat)
}

// ============================================================================
// OUTPUT
// ============================================================================

type cliOutput struct {
	Query    string                 `json:"query"`
	Analysis service.AnalysisResult `json:"analysis"`
	Chart    *service.ChartResponse `json:"chart,omitempty"`
}

func outputWriter() (io.Writer, func(), error) {
	if flagOut == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(flagOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// writeResultCSV emits the result rows in the intent's column order.
func writeResultCSV(w io.Writer, analysis service.AnalysisResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	var cols []string
	if analysis.Intent != nil {
		cols = engine.ResultColumns(*analysis.Intent)
	}
	if len(cols) == 0 {
		cw.Write([]string{"result", "no data"})
		return nil
	}

	cw.Write(cols)
	for _, row := range analysis.Result {
		record := make([]string, len(cols))
		for i, c := range cols {
			record[i] = row[c].String()
		}
		cw.Write(record)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}
