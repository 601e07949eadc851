package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-report/internal/core/services"
)

const tokenIssuer = "kanso-report"

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.APISecret == "" {
			return errors.New("KANSO_API_SECRET is not set; the API runs without authentication")
		}

		token, err := services.NewTokenService(cfg.APISecret, tokenIssuer, cfg.TokenTTL).GenerateToken(tokenSubject)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "dashboard", "token subject")
}
