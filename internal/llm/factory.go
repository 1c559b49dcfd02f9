package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fixwise/fixwise/internal/config"
)

// ErrUnsupportedProvider signals an unrecognized provider key. The caller
// decides whether to fail or substitute a default.
var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// NewProvider builds the backend variant selected by cfg.Provider.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAI(cfg), nil
	case "azure":
		return NewAzureOpenAI(cfg)
	case "anthropic":
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
