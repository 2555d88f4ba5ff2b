package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rabbikazmi/HackingDelhi/config"
	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/server"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portal API server",
		Long: `serve loads configuration, opens the configured record store and
session backend, and serves the API until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.New(logger.Options{
				Mode:     cfg.LogMode,
				Level:    cfg.LogLevel,
				Redact:   cfg.LogRedaction,
				HashSalt: cfg.LogHashSalt,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg, log)
		},
	}
}

