package llm

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/config"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
)

// New builds the configured text generator. It returns a nil generator and
// no error when no API key is configured; callers then use deterministic
// output only.
func New(ctx context.Context, cfg config.LLMConfig, logger *logging.Logger) (core.TextGenerator, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderMistral, "":
		client, err := NewMistralClient(MistralConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.TimeoutDuration(),
			MaxRetries: cfg.MaxRetries,
			RateLimit:  cfg.RateLimitRPS,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderGemini:
		client, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			Timeout:    cfg.TimeoutDuration(),
			MaxRetries: cfg.MaxRetries,
			RateLimit:  cfg.RateLimitRPS,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
