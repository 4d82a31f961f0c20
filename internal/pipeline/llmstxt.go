package pipeline

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// FileListSection is one H2 -> list pair in the file-list stage.
type FileListSection struct {
	Heading string
	Items   []string
}

// LlmsTxt is a validated llms.txt document: a title, a summary, and zero
// or more file-list sections. It also retains the original body so callers
// can persist or re-render it without loss.
type LlmsTxt struct {
	Title    string
	Summary  string
	Sections []FileListSection
	Body     string
}

type llmsStage int

const (
	stageNeedH1 llmsStage = iota
	stageNeedSummary
	stageDetailsOrFileList
	stageNeedListAfterH2
)

// detailBlockKinds are block kinds permitted in the optional-details stage:
// paragraphs (incl. images/line breaks/autolinks/code spans/link
// references/emphasis are inline content within a paragraph, not separate
// blocks), thematic breaks, code blocks, lists, raw HTML blocks, tables,
// and blockquotes (GitHub-style alerts render as blockquotes).
func isDetailBlock(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindParagraph, ast.KindTextBlock, ast.KindThematicBreak,
		ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock,
		ast.KindList, ast.KindBlockquote:
		return true
	case extast.KindTable:
		return true
	default:
		return false
	}
}

func isEmptyBlock(n ast.Node, source []byte) bool {
	if n.ChildCount() > 0 {
		return false
	}
	text := strings.TrimSpace(string(n.Text(source)))
	return text == ""
}

// ValidateLlmsTxt implements validate_llms_txt(Ast) -> LlmsTxt |
// InvalidLlmsTxtFormat(reason), walking the block stream per §6's four
// stages. Empty blocks are always permitted between stages and never
// advance or break the state machine.
func ValidateLlmsTxt(md *Markdown) (*LlmsTxt, error) {
	stage := stageNeedH1
	result := &LlmsTxt{Body: string(md.Source)}

	var currentSection *FileListSection
	sawH1 := false

	for n := md.Doc.FirstChild(); n != nil; n = n.NextSibling() {
		if isEmptyBlock(n, md.Source) {
			continue
		}

		switch stage {
		case stageNeedH1:
			h, ok := n.(*ast.Heading)
			if !ok || h.Level != 1 {
				return nil, &InvalidLlmsTxtFormatError{Reason: "document must begin with an H1 title"}
			}
			result.Title = inlineText(n, md.Source)
			sawH1 = true
			stage = stageNeedSummary

		case stageNeedSummary:
			bq, ok := n.(*ast.Blockquote)
			if !ok {
				return nil, &InvalidLlmsTxtFormatError{Reason: "expected a block-quote summary after the title"}
			}
			result.Summary = blockText(bq, md.Source)
			stage = stageDetailsOrFileList

		case stageDetailsOrFileList:
			if h, ok := n.(*ast.Heading); ok {
				if h.Level == 1 {
					return nil, &InvalidLlmsTxtFormatError{Reason: "duplicate H1 title"}
				}
				if h.Level != 2 {
					return nil, &InvalidLlmsTxtFormatError{Reason: fmt.Sprintf("unexpected H%d heading; only H2 file-list sections are allowed here", h.Level)}
				}
				result.Sections = append(result.Sections, FileListSection{Heading: inlineText(n, md.Source)})
				currentSection = &result.Sections[len(result.Sections)-1]
				stage = stageNeedListAfterH2
				continue
			}
			if !isDetailBlock(n) {
				return nil, &InvalidLlmsTxtFormatError{Reason: "unsupported block kind among optional detail blocks"}
			}
			// stays in stageDetailsOrFileList

		case stageNeedListAfterH2:
			list, ok := n.(*ast.List)
			if !ok {
				return nil, &InvalidLlmsTxtFormatError{Reason: "H2 file-list section must be followed by a list"}
			}
			currentSection.Items = listItems(list, md.Source)
			stage = stageDetailsOrFileList
		}
	}

	if !sawH1 {
		return nil, &InvalidLlmsTxtFormatError{Reason: "missing H1 title"}
	}
	if stage == stageNeedSummary {
		return nil, &InvalidLlmsTxtFormatError{Reason: "missing block-quote summary"}
	}
	if stage == stageNeedListAfterH2 {
		return nil, &InvalidLlmsTxtFormatError{Reason: "trailing H2 file-list section has no list"}
	}

	return result, nil
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			continue
		}
		sb.WriteString(inlineText(c, source))
	}
	return sb.String()
}

func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(inlineText(c, source))
	}
	return sb.String()
}

func listItems(list *ast.List, source []byte) []string {
	var items []string
	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		items = append(items, strings.TrimSpace(blockText(c, source)))
	}
	return items
}
