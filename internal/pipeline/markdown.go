package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// mdParser is shared across calls; goldmark parsers are safe for concurrent
// use once constructed with a fixed extension set.
var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Markdown is the parsed document plus the source bytes its AST nodes
// reference (goldmark nodes store byte-offset segments, not copies).
type Markdown struct {
	Doc    ast.Node
	Source []byte
}

// ParseMarkdown implements parse_markdown(str) -> Ast | InvalidMarkdown.
func ParseMarkdown(src string) (*Markdown, error) {
	source := []byte(src)
	doc := mdParser.Parser().Parse(text.NewReader(source))
	if doc == nil {
		return nil, &InvalidMarkdownError{Cause: errEmptyDocument{}}
	}
	return &Markdown{Doc: doc, Source: source}, nil
}

type errEmptyDocument struct{}

func (errEmptyDocument) Error() string { return "markdown parser returned no document" }
