package blog

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultExcerptWords bounds derived excerpts.
const DefaultExcerptWords = 50

// Excerpt derives a short summary from the first prose paragraph of a
// markdown body. Headings, fenced code blocks and image-only paragraphs are
// skipped; inline images contribute nothing. maxWords <= 0 means unbounded.
func Excerpt(body string, maxWords int) string {
	source := []byte(body)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		para, ok := n.(*ast.Paragraph)
		if !ok {
			continue
		}
		if t := paragraphText(para, source); t != "" {
			return truncateWords(t, maxWords)
		}
	}
	return ""
}

// paragraphText flattens a paragraph's inline nodes into plain text.
func paragraphText(para *ast.Paragraph, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(para, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func truncateWords(s string, maxWords int) string {
	if maxWords <= 0 {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) <= maxWords {
		return s
	}
	return strings.Join(fields[:maxWords], " ") + "..."
}
