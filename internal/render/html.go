package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// HTML renders nodes as an HTML fragment. Consecutive list items are
// grouped into one <ul>. Inline emphasis and code spans in the text are
// kept; every other Markdown construct is written as escaped text.
func HTML(nodes []Node) string {
	var buf bytes.Buffer
	inList := false
	for _, node := range nodes {
		if node.Kind == KindListItem && !inList {
			buf.WriteString("<ul>\n")
			inList = true
		}
		if node.Kind != KindListItem && inList {
			buf.WriteString("</ul>\n")
			inList = false
		}

		switch node.Kind {
		case KindHeading:
			buf.WriteString(`<h3 class="answer-heading">` + inlineHTML(node.Text) + "</h3>\n")
		case KindListItem:
			buf.WriteString("<li>" + inlineHTML(node.Text) + "</li>\n")
		case KindBoxed:
			buf.WriteString(`<p class="answer-line">`)
			for _, segment := range node.Segments {
				if segment.Boxed {
					buf.WriteString(`<span class="answer-boxed">` + html.EscapeString(segment.Text) + "</span>")
					continue
				}
				buf.WriteString(inlineHTML(segment.Text))
			}
			buf.WriteString("</p>\n")
		default:
			buf.WriteString("<p>" + inlineHTML(node.Text) + "</p>\n")
		}
	}
	if inList {
		buf.WriteString("</ul>\n")
	}
	return buf.String()
}

func inlineHTML(s string) string {
	source := []byte(s)
	doc := markdown.Parser().Parse(text.NewReader(source))
	paragraph, ok := doc.FirstChild().(*ast.Paragraph)
	if !ok || paragraph.NextSibling() != nil {
		return html.EscapeString(s)
	}

	r := &inlineRenderer{source: source}
	r.children(paragraph)
	// goldmark trims the paragraph, keep the spacing around boxed segments
	return leadingSpace(s) + strings.TrimSpace(r.buf.String()) + trailingSpace(s)
}

type inlineRenderer struct {
	source []byte
	buf    bytes.Buffer
}

func (r *inlineRenderer) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c)
	}
}

func (r *inlineRenderer) inline(node ast.Node) {
	switch n := node.(type) {
	case *ast.Text:
		r.buf.WriteString(html.EscapeString(string(n.Segment.Value(r.source))))
		if n.SoftLineBreak() || n.HardLineBreak() {
			r.buf.WriteString(" ")
		}
	case *ast.String:
		r.buf.WriteString(html.EscapeString(string(n.Value)))
	case *ast.Emphasis:
		tag := "em"
		if n.Level >= 2 {
			tag = "strong"
		}
		r.buf.WriteString("<" + tag + ">")
		r.children(n)
		r.buf.WriteString("</" + tag + ">")
	case *ast.CodeSpan:
		r.buf.WriteString("<code>")
		r.children(n)
		r.buf.WriteString("</code>")
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			segment := n.Segments.At(i)
			r.buf.WriteString(html.EscapeString(string(segment.Value(r.source))))
		}
	case *ast.AutoLink:
		r.buf.WriteString(html.EscapeString(string(n.Label(r.source))))
	default:
		r.children(n)
	}
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " "))]
}

func trailingSpace(s string) string {
	return s[len(strings.TrimRight(s, " ")):]
}
