package cli

import (
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-report/internal/adapters/render"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a report summary in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		return render.NewTerminal(cmd.OutOrStdout()).Print(report)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
