package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pearpanel/pkg/config"
	"pearpanel/pkg/logger"
	"pearpanel/pkg/panel"

	"github.com/spf13/cobra"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Run the control panel backend",
	Long:  "Connects to the player and integration streams and serves health, readiness, and status endpoints.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.panel")

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := panel.NewService(cfg, log)
		if err != nil {
			log.Error("Failed to initialize panel service", "error", err)
			return
		}

		log.Info("Panel started", "player", cfg.Player.Host, "integration", cfg.Integration.Host)
		if err := svc.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Panel runtime failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(panelCmd)
}
