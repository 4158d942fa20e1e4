package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-dashboard/internal/app"
	"github.com/samvad-hq/samvad-dashboard/internal/config"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Probe catalog requests on an interval and publish changed outcomes",
		Long: `Run the prober until SIGINT or SIGTERM. Settings come from the environment
(and configs/.env): CATALOG_FILE, PUBLISHERS_FILE, PROBE_INTERVAL, METRICS_ADDR and friends.`,
		Args: cobra.NoArgs,
		RunE: runProbe,
	}
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("prober starting", "config", cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prober, err := app.NewProber(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize prober", "error", err.Error())
		return err
	}

	if err := prober.Run(ctx); err != nil {
		return fmt.Errorf("prober run: %w", err)
	}
	return nil
}
