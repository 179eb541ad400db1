package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/config"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s stubGenerator) Name() string { return "stub" }

func (s stubGenerator) Complete(context.Context, string, []core.Message, float64) (string, error) {
	return s.reply, s.err
}

func TestCall(t *testing.T) {
	ctx := context.Background()

	res := Call(ctx, stubGenerator{reply: " {} "}, "m", nil, 0.3)
	require.True(t, res.OK())
	assert.Equal(t, "{}", res.Text)

	boom := errors.New("boom")
	res = Call(ctx, stubGenerator{err: boom}, "m", nil, 0.3)
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, boom)

	res = Call(ctx, stubGenerator{reply: "   "}, "m", nil, 0.3)
	assert.False(t, res.OK())
	assert.Equal(t, core.ErrCatExecution, core.GetCategory(res.Err))

	res = Call(ctx, nil, "m", nil, 0.3)
	assert.ErrorIs(t, res.Err, ErrNoGenerator)
}

func TestRetryPolicy_StopsOnNonRetryable(t *testing.T) {
	p := &RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2}
	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return core.ErrAuth("denied")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_RetriesUntilSuccess(t *testing.T) {
	p := &RetryPolicy{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2}
	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return core.ErrNetwork("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_CalculateDelay(t *testing.T) {
	p := &RetryPolicy{BaseDelay: time.Second, MaxDelay: 3 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, p.CalculateDelay(1))
	assert.Equal(t, 2*time.Second, p.CalculateDelay(2))
	assert.Equal(t, 3*time.Second, p.CalculateDelay(5))
}

func TestRetryPolicy_ContextCanceled(t *testing.T) {
	p := &RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}
	ctx, cancel := context.WithCancel(context.Background())
	err := p.Execute(ctx, func(context.Context) error {
		cancel()
		return core.ErrRateLimit("busy")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiter(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0, 1))
	var disabled *RateLimiter
	assert.NoError(t, disabled.Acquire(context.Background()))
	assert.True(t, disabled.TryAcquire())

	r := NewRateLimiter(1000, 1)
	assert.True(t, r.TryAcquire())
	assert.False(t, r.TryAcquire())
	require.NoError(t, r.Acquire(context.Background()))

	slow := NewRateLimiter(0.001, 1)
	require.True(t, slow.TryAcquire())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, slow.Acquire(ctx), context.DeadlineExceeded)
}

func TestNew(t *testing.T) {
	gen, err := New(context.Background(), config.LLMConfig{Provider: config.ProviderMistral}, nil)
	require.NoError(t, err)
	assert.Nil(t, gen, "no credential means no generator")

	gen, err = New(context.Background(), config.LLMConfig{
		Provider: config.ProviderMistral,
		APIKey:   "k",
		BaseURL:  "http://localhost",
		Timeout:  "5s",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "mistral", gen.Name())

	_, err = New(context.Background(), config.LLMConfig{Provider: "other", APIKey: "k"}, nil)
	assert.Error(t, err)
}

func TestToGenaiContents(t *testing.T) {
	system, contents := toGenaiContents([]core.Message{
		{Role: core.RoleSystem, Content: "be brief"},
		{Role: core.RoleUser, Content: "q1"},
		{Role: core.RoleAssistant, Content: "a1"},
		{Role: core.RoleUser, Content: "q2"},
	})
	require.NotNil(t, system)
	require.Len(t, contents, 3)
	assert.Equal(t, "model", string(contents[1].Role))
	assert.Equal(t, "user", string(contents[2].Role))

	system, contents = toGenaiContents([]core.Message{{Role: core.RoleUser, Content: "q"}})
	assert.Nil(t, system)
	assert.Len(t, contents, 1)
}
