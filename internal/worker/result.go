// Package worker drives Jobs from non-terminal to terminal. Many worker
// processes may run concurrently, each polling the Store independently and
// bounding its own in-flight work with a local semaphore.
package worker

// JobResult is the four-case sum handle_job always yields — never a panic,
// never a fifth shape. handle_result (see result_mapper.go) pattern-matches
// over Kind and must be exhaustive.
type JobResult struct {
	Kind ResultKind

	// Success / GenerationFailed
	HTMLCompressed []byte
	HTMLChecksum   string

	// Success only
	LlmsTxt string

	// GenerationFailed / HtmlProcessingFailed / DownloadFailed
	Err error
}

// ResultKind discriminates the four JobResult variants.
type ResultKind int

const (
	// ResultSuccess: fetch, normalize, and the LLM step all succeeded.
	ResultSuccess ResultKind = iota
	// ResultGenerationFailed: HTML fetched and normalized, the LLM step failed.
	ResultGenerationFailed
	// ResultHTMLProcessingFailed: HTML fetched, normalization failed. No HTML retained.
	ResultHTMLProcessingFailed
	// ResultDownloadFailed: URL invalid, or the fetch itself failed.
	ResultDownloadFailed
)

func successResult(htmlCompressed []byte, htmlChecksum, llmsTxt string) JobResult {
	return JobResult{Kind: ResultSuccess, HTMLCompressed: htmlCompressed, HTMLChecksum: htmlChecksum, LlmsTxt: llmsTxt}
}

func generationFailed(htmlCompressed []byte, htmlChecksum string, err error) JobResult {
	return JobResult{Kind: ResultGenerationFailed, HTMLCompressed: htmlCompressed, HTMLChecksum: htmlChecksum, Err: err}
}

func htmlProcessingFailed(err error) JobResult {
	return JobResult{Kind: ResultHTMLProcessingFailed, Err: err}
}

func downloadFailed(err error) JobResult {
	return JobResult{Kind: ResultDownloadFailed, Err: err}
}
