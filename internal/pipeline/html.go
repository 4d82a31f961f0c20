package pipeline

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NormalizeHTML implements normalize_html: parse as HTML5, repair malformed
// markup (missing tags, implicit body/head, etc.), and re-serialize
// canonically. golang.org/x/net/html's parser + renderer pair is
// deterministic for a given input, satisfying the spec's determinism
// requirement.
func NormalizeHTML(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", &InvalidHTMLError{Cause: err}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", &InvalidHTMLError{Cause: err}
	}
	return buf.String(), nil
}

// preservedWhitespaceAtoms are elements whose text content must not have
// its whitespace collapsed.
var preservedWhitespaceAtoms = map[atom.Atom]bool{
	atom.Pre:      true,
	atom.Code:     true,
	atom.Textarea: true,
}

// rawContentAtoms are elements whose content is not HTML markup at all and
// must pass through untouched.
var rawContentAtoms = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

var collapsibleWhitespace = regexp.MustCompile(`[ \t\r\n\f]+`)

// CleanHTML implements clean_html: collapses non-significant whitespace
// while preserving <pre>/<code>/<textarea> content verbatim, strips
// comments/processing-instructions and every doctype except one that is
// the document's first node, keeps structural closing
// tags, and never touches embedded <script>/<style> content.
func CleanHTML(normalized string) (string, error) {
	doc, err := html.Parse(strings.NewReader(normalized))
	if err != nil {
		return "", &InvalidHTMLError{Cause: err}
	}

	cleanNode(doc, false)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", &InvalidHTMLError{Cause: err}
	}
	return buf.String(), nil
}

// cleanNode walks the tree in place, removing comment/doctype/processing
// nodes and collapsing whitespace in text nodes outside preserve/raw
// elements. preserve is true while recursing inside a whitespace-preserving
// or raw-content ancestor.
func cleanNode(n *html.Node, preserve bool) {
	nextPreserve := preserve
	if n.Type == html.ElementNode {
		if preservedWhitespaceAtoms[n.DataAtom] || rawContentAtoms[n.DataAtom] {
			nextPreserve = true
		}
	}

	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling

		switch c.Type {
		case html.CommentNode:
			n.RemoveChild(c)
			continue
		case html.DoctypeNode:
			// Keep a single leading doctype (html.Render emits it
			// correctly); only strip stray bang declarations found
			// elsewhere in the tree.
			if c != n.FirstChild {
				n.RemoveChild(c)
				continue
			}
		case html.TextNode:
			if !nextPreserve {
				c.Data = collapsibleWhitespace.ReplaceAllString(c.Data, " ")
			}
		}

		cleanNode(c, nextPreserve)
	}
}
