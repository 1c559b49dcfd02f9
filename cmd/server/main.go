package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/fixwise/fixwise/internal/analyzer"
	"github.com/fixwise/fixwise/internal/config"
	"github.com/fixwise/fixwise/internal/knowledge"
	"github.com/fixwise/fixwise/internal/llm"
	"github.com/fixwise/fixwise/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create model provider: %v", err)
	}
	client := llm.NewClient(provider, cfg.LLM.MaxRetries)

	kb := knowledge.NewClient(&cfg.KB)
	engine := analyzer.NewEngine(client, kb)

	srv := server.New(cfg.Server, engine)
	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"provider", provider.Name(),
		"knowledge_base", kb.Endpoint())
	if err := srv.Run(context.Background()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
