package llm

import (
	"context"
	"sync/atomic"
)

// Counter is the subset of a Prometheus counter instrumentedProvider needs,
// kept minimal so this package does not import metrics directly.
type Counter interface {
	Inc()
}

// instrumentedProvider counts provider calls and retries. The first
// Complete made through a given instance counts as a call; every one
// after that counts as a retry, matching generate_llms_txt/update_llms_txt's
// single-retry shape (at most one retry per job). Build a fresh instance
// per job so the first-call bookkeeping starts over each time.
type instrumentedProvider struct {
	Provider
	calls   Counter
	retries Counter
	seen    atomic.Bool
}

// Instrument wraps p so the first Complete call increments calls and any
// further call increments retries.
func Instrument(p Provider, calls, retries Counter) Provider {
	return &instrumentedProvider{Provider: p, calls: calls, retries: retries}
}

func (i *instrumentedProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if i.seen.Swap(true) {
		if i.retries != nil {
			i.retries.Inc()
		}
	} else if i.calls != nil {
		i.calls.Inc()
	}
	return i.Provider.Complete(ctx, prompt)
}
