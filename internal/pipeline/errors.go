// Package pipeline implements the pure, Store-free chain of functions that
// turns a URL and optional prior artifact into a validated llms.txt body or
// a classified error: validate_url, download, normalize_html, clean_html,
// compute_checksum, compress/decompress, parse_markdown, validate_llms_txt,
// generate_llms_txt, update_llms_txt.
package pipeline

import "fmt"

// InvalidURLError means the input string does not parse to an absolute URL.
type InvalidURLError struct {
	Input string
	Cause error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.Input, e.Cause)
}

func (e *InvalidURLError) Unwrap() error { return e.Cause }

// DownloadError means fetching the URL's HTML failed (network, non-2xx).
type DownloadError struct {
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %q: %v", e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// InvalidHTMLError means normalization of fetched HTML failed.
type InvalidHTMLError struct {
	Cause error
}

func (e *InvalidHTMLError) Error() string {
	return fmt.Sprintf("invalid html: %v", e.Cause)
}

func (e *InvalidHTMLError) Unwrap() error { return e.Cause }

// InvalidMarkdownError means LLM output (or a supplied prior artifact) does
// not parse as markdown.
type InvalidMarkdownError struct {
	Cause error
}

func (e *InvalidMarkdownError) Error() string {
	return fmt.Sprintf("invalid markdown: %v", e.Cause)
}

func (e *InvalidMarkdownError) Unwrap() error { return e.Cause }

// InvalidLlmsTxtFormatError means a markdown document does not satisfy the
// llms.txt structural rules; Reason locates the offending stage.
type InvalidLlmsTxtFormatError struct {
	Reason string
}

func (e *InvalidLlmsTxtFormatError) Error() string {
	return fmt.Sprintf("invalid llms.txt format: %s", e.Reason)
}

// ProviderError means an LLM call itself failed (transport, auth,
// rate-limit). It is returned as soon as either the first call or the
// retry call fails; a failed provider call is not retried.
type ProviderError struct {
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider error: %v", e.Cause)
}

func (e *ProviderError) Unwrap() error { return e.Cause }
