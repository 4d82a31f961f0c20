// Package llm models the LLM provider as a single-operation capability, per
// the specification's "dynamic dispatch over LLM provider" design note: any
// value satisfying Provider can drive the pipeline's generate/update loop.
package llm

import "context"

// Provider is a prompt-in/text-out oracle. Concrete implementations:
// a real provider backed by Anthropic or OpenAI, a fixture-driven mock for
// tests, and a FailingProvider for exercising error paths.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
