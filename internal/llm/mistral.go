package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/logging"
)

// MistralConfig configures a MistralClient.
type MistralConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64
	HTTPClient *http.Client
}

// MistralClient calls an OpenAI-compatible chat completions endpoint.
type MistralClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	retry      *RetryPolicy
	limiter    *RateLimiter
	logger     *logging.Logger
	maxBody    int64
}

// maxResponseBytes caps how much of a completion response is read.
const maxResponseBytes = 4 << 20

type chatRequest struct {
	Model       string         `json:"model"`
	Messages    []core.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewMistralClient creates a client. The API key is required.
func NewMistralClient(cfg MistralConfig, logger *logging.Logger) (*MistralClient, error) {
	if cfg.APIKey == "" {
		return nil, core.ErrAuth("mistral API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	retry := DefaultRetryPolicy()
	retry.MaxAttempts = cfg.MaxRetries + 1

	return &MistralClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		retry:      retry,
		limiter:    NewRateLimiter(cfg.RateLimit, 1),
		logger:     logger.With("provider", "mistral"),
		maxBody:    maxResponseBytes,
	}, nil
}

// Name implements core.TextGenerator.
func (c *MistralClient) Name() string {
	return "mistral"
}

// Complete implements core.TextGenerator.
func (c *MistralClient) Complete(ctx context.Context, model string, messages []core.Message, temperature float64) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{Model: model, Messages: messages, Temperature: temperature})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	start := time.Now()
	var reply string
	err = c.retry.Execute(ctx, func(ctx context.Context) error {
		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}
		var callErr error
		reply, callErr = c.do(ctx, body)
		if callErr != nil && core.IsRetryable(callErr) {
			c.logger.Warn("provider call failed, retrying", "error", callErr)
		}
		return callErr
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", core.ErrTimeout("mistral request timed out").WithCause(err)
		}
		return "", err
	}

	c.logger.Debug("completion received", "model", model, "duration_ms", time.Since(start).Milliseconds(), "reply_len", len(reply))
	return reply, nil
}

func (c *MistralClient) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", core.ErrNetwork("mistral request failed").WithCause(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", core.ErrNetwork("reading mistral response").WithCause(err)
	}
	if int64(len(data)) > c.maxBody {
		return "", core.ErrExecution(core.CodeProviderFailed, fmt.Sprintf("mistral response exceeds %d bytes", c.maxBody))
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", core.ErrExecution(core.CodeProviderFailed, "decoding mistral response").WithCause(err)
	}
	if parsed.Error != nil {
		return "", core.ErrExecution(core.CodeProviderFailed, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", core.ErrExecution(core.CodeEmptyResponse, "mistral returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	msg := fmt.Sprintf("mistral returned status %d: %s", status, snippet)

	switch {
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimit(msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrAuth(msg)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return core.ErrTimeout(msg)
	case status >= 500:
		return core.ErrNetwork(msg)
	default:
		return core.ErrExecution(core.CodeProviderFailed, msg)
	}
}

var _ core.TextGenerator = (*MistralClient)(nil)
