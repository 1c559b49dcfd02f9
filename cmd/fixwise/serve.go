package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fixwise/fixwise/internal/analyzer"
	"github.com/fixwise/fixwise/internal/config"
	"github.com/fixwise/fixwise/internal/knowledge"
	"github.com/fixwise/fixwise/internal/llm"
	"github.com/fixwise/fixwise/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			provider, err := llm.NewProvider(&cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create model provider: %w", err)
			}
			client := llm.NewClient(provider, cfg.LLM.MaxRetries)
			engine := analyzer.NewEngine(client, knowledge.NewClient(&cfg.KB))

			srv := server.New(cfg.Server, engine)
			slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
			return srv.Run(cmd.Context())
		},
	}
}
