package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
)

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	timeout time.Duration
	limiter *RateLimiter
	retry   *RetryPolicy
	logger  *logging.Logger
}

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64
}

// NewGeminiClient creates a Gemini client. The API key is required.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *logging.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, core.ErrAuth("gemini API key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	retry := DefaultRetryPolicy()
	retry.MaxAttempts = cfg.MaxRetries + 1

	return &GeminiClient{
		client:  client,
		timeout: cfg.Timeout,
		limiter: NewRateLimiter(cfg.RateLimit, 1),
		retry:   retry,
		logger:  logger.With("provider", "gemini"),
	}, nil
}

// Name implements core.TextGenerator.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Complete implements core.TextGenerator. System messages become the system
// instruction; assistant turns are sent with the model role.
func (c *GeminiClient) Complete(ctx context.Context, model string, messages []core.Message, temperature float64) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	system, contents := toGenaiContents(messages)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if system != nil {
		config.SystemInstruction = system
	}

	var reply string
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}
		resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return classifyGeminiError(err)
		}
		reply = strings.TrimSpace(resp.Text())
		return nil
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", core.ErrTimeout("gemini request timed out").WithCause(err)
		}
		return "", err
	}
	if reply == "" {
		return "", core.ErrExecution(core.CodeEmptyResponse, "gemini returned no text")
	}
	c.logger.Debug("completion received", "model", model, "reply_len", len(reply))
	return reply, nil
}

func toGenaiContents(messages []core.Message) (*genai.Content, []*genai.Content) {
	var systemParts []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			systemParts = append(systemParts, m.Content)
		case core.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(systemParts) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(systemParts, "\n\n"), genai.RoleUser), contents
}

// classifyGeminiError maps SDK errors onto the retry taxonomy using the HTTP
// status carried by genai.APIError.
func classifyGeminiError(err error) error {
	if apiErr, ok := asAPIError(err); ok {
		msg := fmt.Sprintf("gemini returned status %d: %s", apiErr.Code, apiErr.Message)
		switch {
		case apiErr.Code == 429:
			return core.ErrRateLimit(msg).WithCause(err)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return core.ErrAuth(msg).WithCause(err)
		case apiErr.Code >= 500:
			return core.ErrNetwork(msg).WithCause(err)
		}
		return core.ErrExecution(core.CodeProviderFailed, msg).WithCause(err)
	}
	return core.ErrExecution(core.CodeProviderFailed, "gemini request failed").WithCause(err)
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}

var _ core.TextGenerator = (*GeminiClient)(nil)
