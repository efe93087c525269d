package pdf

import (
	"strings"

	"golang.org/x/net/html"
)

type blockKind int

const (
	paragraph blockKind = iota
	heading1
	heading2
	heading3
	listItem
	preformatted
	rule
)

type block struct {
	kind blockKind
	text string
}

var blockTags = map[string]blockKind{
	"h1":         heading1,
	"h2":         heading2,
	"h3":         heading3,
	"h4":         heading3,
	"h5":         heading3,
	"h6":         heading3,
	"p":          paragraph,
	"div":        paragraph,
	"blockquote": paragraph,
	"li":         listItem,
	"pre":        preformatted,
}

// extractor flattens a parsed markup tree into the sequence of blocks the
// engine knows how to lay out. Inline styling is dropped.
type extractor struct {
	title  string
	blocks []block
	buf    strings.Builder
}

func extractBlocks(root *html.Node) (string, []block) {
	x := &extractor{}
	x.walk(root, false)
	x.flush(paragraph)
	return x.title, x.blocks
}

func (x *extractor) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			x.buf.WriteString(n.Data)
		} else {
			// source line breaks are plain whitespace; only <br> breaks a line
			x.buf.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "head":
			x.walkHead(n)
			return
		case "style", "script":
			return
		case "br":
			x.buf.WriteByte('\n')
			return
		case "hr":
			x.flush(paragraph)
			x.blocks = append(x.blocks, block{kind: rule})
			return
		}
		if kind, ok := blockTags[n.Data]; ok {
			x.flush(paragraph)
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				x.walk(c, pre || kind == preformatted)
			}
			x.flush(kind)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		x.walk(c, pre)
	}
}

func (x *extractor) walkHead(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "title" && c.FirstChild != nil {
			x.title = strings.TrimSpace(c.FirstChild.Data)
		}
	}
}

func (x *extractor) flush(kind blockKind) {
	raw := x.buf.String()
	x.buf.Reset()

	var text string
	if kind == preformatted {
		text = strings.Trim(raw, "\n")
	} else {
		text = collapse(raw)
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	x.blocks = append(x.blocks, block{kind: kind, text: text})
}

// collapse folds whitespace runs into single spaces while keeping explicit
// line breaks.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if f := strings.Fields(l); len(f) > 0 {
			out = append(out, strings.Join(f, " "))
		}
	}
	return strings.Join(out, "\n")
}
