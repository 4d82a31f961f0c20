package pipeline

import (
	"context"
	"fmt"

	"github.com/jonesrussell/llmstxt-pipeline/internal/llm"
)

// GenerateLlmsTxt implements generate_llms_txt(provider, html) -> LlmsTxt |
// Error: build a generation prompt, invoke the provider, parse and
// validate the response, and on failure retry exactly once with the error
// folded into the prompt. No further retries.
func GenerateLlmsTxt(ctx context.Context, provider llm.Provider, html string) (*LlmsTxt, error) {
	prompt := promptGenerate(html)
	response, err := provider.Complete(ctx, prompt)
	if err != nil {
		return nil, providerErr(err)
	}

	result, validateErr := parseAndValidate(response)
	if validateErr == nil {
		return result, nil
	}

	retryPrompt := promptRetryGenerate(html, response, validateErr.Error())
	retryResponse, err := provider.Complete(ctx, retryPrompt)
	if err != nil {
		return nil, providerErr(err)
	}

	result, validateErr = parseAndValidate(retryResponse)
	if validateErr != nil {
		return nil, validateErr
	}
	return result, nil
}

// UpdateLlmsTxt implements update_llms_txt(provider, prior_llms_txt, html)
// -> LlmsTxt | Error: first validates that prior_llms_txt is itself
// well-formed (fails fast if not), then drives the same single-retry shape
// using the update/retry-update templates.
func UpdateLlmsTxt(ctx context.Context, provider llm.Provider, priorLlmsTxt, html string) (*LlmsTxt, error) {
	if _, err := parseAndValidate(priorLlmsTxt); err != nil {
		return nil, fmt.Errorf("prior llms.txt is not well-formed: %w", err)
	}

	prompt := promptUpdate(priorLlmsTxt, html)
	response, err := provider.Complete(ctx, prompt)
	if err != nil {
		return nil, providerErr(err)
	}

	result, validateErr := parseAndValidate(response)
	if validateErr == nil {
		return result, nil
	}

	retryPrompt := promptRetryUpdate(priorLlmsTxt, response, validateErr.Error())
	retryResponse, err := provider.Complete(ctx, retryPrompt)
	if err != nil {
		return nil, providerErr(err)
	}

	result, validateErr = parseAndValidate(retryResponse)
	if validateErr != nil {
		return nil, validateErr
	}
	return result, nil
}

// parseAndValidate runs parse_markdown then validate_llms_txt, surfacing
// whichever step fails first.
func parseAndValidate(body string) (*LlmsTxt, error) {
	md, err := ParseMarkdown(body)
	if err != nil {
		return nil, err
	}
	return ValidateLlmsTxt(md)
}

func providerErr(err error) error {
	return &ProviderError{Cause: err}
}
