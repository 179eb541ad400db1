// Package llm contains the generative text clients and the helpers agents use
// to call them and read their replies.
package llm

import (
	"context"
	"strings"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

// Result is the outcome of one generation call. Exactly one of Text or Err
// is meaningful.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the call produced text.
func (r Result) OK() bool {
	return r.Err == nil
}

// Call invokes gen and folds every failure, including an empty reply, into
// the returned Result. A nil generator is reported as ErrNoGenerator.
func Call(ctx context.Context, gen core.TextGenerator, model string, messages []core.Message, temperature float64) Result {
	if gen == nil {
		return Result{Err: ErrNoGenerator}
	}
	text, err := gen.Complete(ctx, model, messages, temperature)
	if err != nil {
		return Result{Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Err: core.ErrExecution(core.CodeEmptyResponse, gen.Name()+" returned an empty reply")}
	}
	return Result{Text: text}
}

// ErrNoGenerator is returned by Call when no generator is configured.
var ErrNoGenerator = core.ErrExecution(core.CodeProviderFailed, "no text generator configured")
