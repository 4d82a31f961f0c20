package pipeline_test

import (
	"strings"
	"testing"

	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
)

func TestNormalizeHTML_RepairsMalformedMarkup(t *testing.T) {
	t.Parallel()

	got, err := pipeline.NormalizeHTML("<p>unclosed paragraph<div>nested</div>")
	if err != nil {
		t.Fatalf("NormalizeHTML() error = %v", err)
	}
	if !strings.Contains(got, "<html") {
		t.Errorf("NormalizeHTML() output missing implicit <html>: %q", got)
	}
}

func TestNormalizeHTML_Deterministic(t *testing.T) {
	t.Parallel()

	const input = "<p>hello <b>world</b></p>"
	first, err := pipeline.NormalizeHTML(input)
	if err != nil {
		t.Fatalf("NormalizeHTML() error = %v", err)
	}
	second, err := pipeline.NormalizeHTML(input)
	if err != nil {
		t.Fatalf("NormalizeHTML() error = %v", err)
	}
	if first != second {
		t.Errorf("NormalizeHTML() not deterministic: %q != %q", first, second)
	}
}

func TestCleanHTML_CollapsesWhitespaceOutsidePre(t *testing.T) {
	t.Parallel()

	normalized, err := pipeline.NormalizeHTML("<p>hello   \n\n  world</p>")
	if err != nil {
		t.Fatalf("NormalizeHTML() error = %v", err)
	}
	cleaned, err := pipeline.CleanHTML(normalized)
	if err != nil {
		t.Fatalf("CleanHTML() error = %v", err)
	}
	if strings.Contains(cleaned, "  ") {
		t.Errorf("CleanHTML() left collapsible whitespace: %q", cleaned)
	}
}

func TestCleanHTML_PreservesPreContent(t *testing.T) {
	t.Parallel()

	normalized, err := pipeline.NormalizeHTML("<pre>line one\n\n   line two</pre>")
	if err != nil {
		t.Fatalf("NormalizeHTML() error = %v", err)
	}
	cleaned, err := pipeline.CleanHTML(normalized)
	if err != nil {
		t.Fatalf("CleanHTML() error = %v", err)
	}
	if !strings.Contains(cleaned, "line one\n\n   line two") {
		t.Errorf("CleanHTML() mangled <pre> content: %q", cleaned)
	}
}

func TestCleanHTML_StripsComments(t *testing.T) {
	t.Parallel()

	normalized, err := pipeline.NormalizeHTML("<p>kept</p><!-- remove me -->")
	if err != nil {
		t.Fatalf("NormalizeHTML() error = %v", err)
	}
	cleaned, err := pipeline.CleanHTML(normalized)
	if err != nil {
		t.Fatalf("CleanHTML() error = %v", err)
	}
	if strings.Contains(cleaned, "remove me") {
		t.Errorf("CleanHTML() left a comment: %q", cleaned)
	}
}

func TestCleanHTML_KeepsScriptContentVerbatim(t *testing.T) {
	t.Parallel()

	normalized, err := pipeline.NormalizeHTML("<script>  var x =   1;  </script>")
	if err != nil {
		t.Fatalf("NormalizeHTML() error = %v", err)
	}
	cleaned, err := pipeline.CleanHTML(normalized)
	if err != nil {
		t.Fatalf("CleanHTML() error = %v", err)
	}
	if !strings.Contains(cleaned, "var x =   1;") {
		t.Errorf("CleanHTML() touched <script> content: %q", cleaned)
	}
}
