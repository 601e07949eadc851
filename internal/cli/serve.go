package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	adapterHTTP "github.com/comitanigiacomo/kanso-report/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-report/internal/adapters/metrics"
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
	"github.com/comitanigiacomo/kanso-report/internal/core/services"
	"github.com/comitanigiacomo/kanso-report/internal/core/workers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report tables over HTTP",
	Long: `Serve the report over HTTP:

  GET /health
  GET /metrics
  GET /api/v1/report[/frequency|/groups|/score|/heatmap.png|/pdf]?source=&date=&variant=

Requests need a bearer token (see "kanso-report token") when KANSO_API_SECRET is set.`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default KANSO_PORT or 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)

	a, err := newApp(ctx, cfg, recorder)
	if err != nil {
		return err
	}
	defer a.Close()

	var tokens *services.TokenService
	if cfg.APISecret != "" {
		tokens = services.NewTokenService(cfg.APISecret, tokenIssuer, cfg.TokenTTL)
	} else {
		logger.Warn("KANSO_API_SECRET not set, API authentication disabled")
	}

	if cfg.Refresh > 0 {
		variant, err := domain.ParseVariant(cfg.Variant)
		if err != nil {
			return err
		}
		workers.NewRefreshWorker(a.Reports, workers.RefreshJob{SourceID: cfg.Source, Variant: variant}, cfg.Refresh, logger).Start(ctx)
	}

	gin.SetMode(gin.ReleaseMode)
	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		ReportHandler: adapterHTTP.NewReportHandler(a.Reports, cfg.Source, logger),
		TokenService:  tokens,
		Redis:         a.Redis,
		Metrics:       recorder.Handler(),
		RateLimit:     cfg.RateLimit,
		Log:           logger,
		StartTime:     startTime,
	})

	port := servePort
	if port == "" {
		port = cfg.Port
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", port).Info("kanso-report listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("stop signal received, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
