package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-report/internal/config"
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const dateLayout = "2006-01-02"

var (
	v      = config.NewViper()
	cfg    *config.Config
	logger = logrus.New()

	configFile  string
	dateFlag    string
	strictFlag  bool
	refreshFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "kanso-report",
	Short: "Habit register analytics: frequency, category heat map and daily score",
	Long: `kanso-report reads a daily habit register (a shared spreadsheet, a CSV file
or the kanso sync engine database) and computes per-task completion frequency,
per-category daily completion and a weighted daily score.

Examples:
  kanso-report report --source "https://docs.google.com/spreadsheets/d/<id>/edit#gid=0" -o habitos.pdf
  kanso-report summary --source ./habitos.csv --date 2024-07-11
  kanso-report export --table groups --format csv
  kanso-report serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		loaded, err := config.Load(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		return setupLogger(logger, cfg.LogLevel, cmd.ErrOrStderr())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./kanso-report.yaml)")
	flags.String("source", config.DefaultSource, "register source: sheet URL, CSV path, db:<user_id> or mem:<name>")
	flags.String("variant", string(domain.VariantScored), "report variant: classic or scored")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&dateFlag, "date", "", "snapshot date YYYY-MM-DD (default today)")
	flags.BoolVar(&strictFlag, "strict", false, "fail on unrecognized cell tokens instead of counting them as not done")
	flags.BoolVar(&refreshFlag, "refresh", false, "ignore the cached register and fetch it again")

	if err := v.BindPFlag("source", flags.Lookup("source")); err != nil {
		panic(err)
	}
	if err := v.BindPFlag("variant", flags.Lookup("variant")); err != nil {
		panic(err)
	}
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		panic(err)
	}
}

func setupLogger(log *logrus.Logger, level string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// reportInput turns the persistent flags into a pipeline request.
func reportInput() (domain.ReportInput, error) {
	variant, err := domain.ParseVariant(cfg.Variant)
	if err != nil {
		return domain.ReportInput{}, err
	}

	snapshot := time.Now()
	if dateFlag != "" {
		snapshot, err = time.Parse(dateLayout, dateFlag)
		if err != nil {
			return domain.ReportInput{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", dateFlag)
		}
	}

	return domain.ReportInput{
		SourceID: cfg.Source,
		Snapshot: snapshot,
		Variant:  variant,
		Strict:   strictFlag,
		Refresh:  refreshFlag,
	}, nil
}
