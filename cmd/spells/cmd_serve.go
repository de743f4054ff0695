package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/spells-for-muggle/internal/eventbridge"
	"github.com/kingrea/spells-for-muggle/internal/logging"
)

const shutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill endpoint over HTTP",
	Long: `Starts the HTTP bridge: POST /skill takes a platform event and returns the
response envelope, GET /health reports readiness. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Mode: cfg.LogMode(), File: cfg.LogFile()})
	if err != nil {
		return err
	}
	defer logger.Close()

	sk, err := buildSkill(cfg, logger)
	if err != nil {
		logger.Error("build skill failed", "error", err)
		return err
	}
	settings := eventbridge.SettingsFromConfig(cfg)
	srv := eventbridge.NewServer(settings,
		eventbridge.WithHandler(sk),
		eventbridge.WithLogger(logger.With("component", "eventbridge")),
		eventbridge.WithCatalogSize(sk.Catalog().Len()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := srv.Start(ctx); err != nil {
		if errors.Is(err, eventbridge.ErrServerDisabled) {
			return fmt.Errorf("server disabled in %s (server.enabled or SPELLS_BRIDGE_ENABLED)", cfg.ConfigPath())
		}
		return err
	}
	logger.Info("serving skill", "url", srv.BaseURL()+"/skill", "version", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s/skill (ctrl+c to stop)\n", srv.BaseURL())

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
