package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider drives generation via the Chat Completions API. Selected
// when LLM_PROVIDER=openai and OPENAI_API_KEY is set.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider constructs a Provider backed by apiKey. model may be
// empty, in which case GPT-4o is used.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &ProviderError{Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Cause: errNoChoices{}}
	}
	return resp.Choices[0].Message.Content, nil
}

type errNoChoices struct{}

func (errNoChoices) Error() string { return "openai response had no choices" }
