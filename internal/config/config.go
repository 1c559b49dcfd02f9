package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	KB     KnowledgeBaseConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"300s"`
}

type LLMConfig struct {
	Provider       string        `envconfig:"LLM_PROVIDER" default:"openai"`
	APIKey         string        `envconfig:"LLM_API_KEY"`
	Model          string        `envconfig:"LLM_MODEL" default:"gpt-4"`
	Temperature    float64       `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	MaxTokens      int64         `envconfig:"LLM_MAX_TOKENS" default:"2000"`
	Endpoint       string        `envconfig:"LLM_ENDPOINT"`
	DeploymentName string        `envconfig:"LLM_DEPLOYMENT_NAME"`
	Timeout        time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	MaxRetries     int           `envconfig:"LLM_MAX_RETRIES" default:"2"`
}

type KnowledgeBaseConfig struct {
	Endpoint            string        `envconfig:"KB_ENDPOINT" default:"http://localhost:8001/query"`
	TopK                int           `envconfig:"KB_TOP_K" default:"5"`
	SimilarityThreshold float64       `envconfig:"KB_SIMILARITY_THRESHOLD" default:"0.75"`
	Timeout             time.Duration `envconfig:"KB_TIMEOUT" default:"30s"`
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully", "provider", cfg.LLM.Provider)
	return &cfg, nil
}
