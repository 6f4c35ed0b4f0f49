package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/lexfeat/api"
	"github.com/meghashyamc/lexfeat/config"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine, the environment and config files still apply
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			return api.Run(cmd.Context(), cfg)
		},
	}
}
