package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-report/internal/adapters/render"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export report tables to JSON or CSV",
	Long: `Export the computed tables for external analysis. Numbers are rounded
to two decimals.

Examples:
  kanso-report export --format json                    # whole report
  kanso-report export --format json --table score
  kanso-report export --format csv --table groups -o groups.csv`,
	RunE: runExport,
}

var (
	exportFormat string
	exportTable  string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
	exportCmd.Flags().StringVarP(&exportTable, "table", "t", "", "Table: frequency, groups, score (csv default: frequency)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := render.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	table, err := render.ParseTable(exportTable)
	if err != nil {
		return err
	}

	input, err := reportInput()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Reports.Build(ctx, input)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format == render.FormatCSV {
		return render.WriteCSV(out, report, table)
	}

	if exportTable == "" {
		return render.WriteJSON(out, render.Rounded(report))
	}

	value, err := render.TableValue(report, table)
	if err != nil {
		return err
	}
	return render.WriteJSON(out, value)
}
