package worker

import (
	"context"

	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
	"github.com/jonesrussell/llmstxt-pipeline/internal/llm"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
)

// handleJob runs one Job through the fixed step order — validate URL,
// download, normalize+checksum, then branch on Kind — and always returns
// exactly one JobResult variant. It never panics: every pipeline error is
// caught and classified into the matching result kind. m may be nil.
func handleJob(ctx context.Context, job *domain.Job, downloader pipeline.Downloader, provider llm.Provider, m *metrics.Registry) JobResult {
	if _, err := pipeline.ValidateURL(job.URL); err != nil {
		return downloadFailed(err)
	}

	raw, err := downloader.Download(ctx, job.URL)
	if err != nil {
		return downloadFailed(err)
	}

	normalized, err := pipeline.NormalizeHTML(string(raw))
	if err != nil {
		return htmlProcessingFailed(err)
	}

	checksum, err := pipeline.ComputeChecksum(normalized)
	if err != nil {
		return htmlProcessingFailed(err)
	}

	compressed, err := pipeline.Compress(normalized)
	if err != nil {
		return htmlProcessingFailed(err)
	}

	callProvider := provider
	if m != nil {
		callProvider = llm.Instrument(provider, m.LLMCalls, m.LLMRetries)
	}

	var doc *pipeline.LlmsTxt
	switch job.Kind {
	case domain.JobUpdate:
		prior := ""
		if job.PriorLlmsTxt != nil {
			prior = *job.PriorLlmsTxt
		}
		doc, err = pipeline.UpdateLlmsTxt(ctx, callProvider, prior, normalized)
	default:
		doc, err = pipeline.GenerateLlmsTxt(ctx, callProvider, normalized)
	}
	if err != nil {
		return generationFailed(compressed, checksum, err)
	}

	return successResult(compressed, checksum, doc.Body)
}
