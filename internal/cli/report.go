package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-report/internal/adapters/render"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the PDF report",
	Long: `Build the multi-page PDF report: completion grid, task frequency,
category completion, category heat map and, for the scored variant, the
daily weighted score.

The file is written atomically: on failure the previous file is left as is.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "habitos.pdf", "PDF output path")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	if err := render.NewPDFWriter().Write(report, reportOutput); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Report for %s written to %s\n", report.Snapshot.Format(dateLayout), reportOutput)
	return nil
}
