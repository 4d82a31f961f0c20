package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider drives generation via the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider constructs a Provider backed by apiKey. model may be
// empty, in which case a current Claude model is used.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3_5SonnetLatest
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

// Complete implements Provider.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &ProviderError{Cause: err}
	}

	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", &ProviderError{Cause: fmt.Errorf("anthropic response had no text content")}
	}
	return out, nil
}

// ProviderError wraps a transport/auth/rate-limit failure from a real
// provider. Defined here (not in internal/pipeline) so internal/llm has no
// dependency on internal/pipeline; pipeline.ProviderError wraps this in
// turn when surfacing it to the generate/update loop.
type ProviderError struct {
	Cause error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("llm provider error: %v", e.Cause) }
func (e *ProviderError) Unwrap() error { return e.Cause }
