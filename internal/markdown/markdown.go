package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Marker is directive-looking text found in prose, outside any code.
type Marker struct {
	Line int
	Text string
}

// ParseBody parses a Markdown body into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// FindStrayMarkers reports every match of pattern that lies outside fenced code
// blocks, indented code blocks and code spans.
//
// Inlined example files live inside fences and may legitimately contain
// directive-looking text; anything left in prose is an unexpanded directive.
func FindStrayMarkers(body []byte, pattern *regexp.Regexp) []Marker {
	code := codeRanges(body)

	var markers []Marker
	for _, loc := range pattern.FindAllIndex(body, -1) {
		if inRanges(code, loc[0]) {
			continue
		}
		markers = append(markers, Marker{Line: lineOf(body, loc[0]), Text: string(body[loc[0]:loc[1]])})
	}
	return markers
}

// Outline returns the document's headings in order.
func Outline(body []byte) []Heading {
	root := ParseBody(body)

	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		line := 0
		if lines := h.Lines(); lines.Len() > 0 {
			line = lineOf(body, lines.At(0).Start)
		}
		headings = append(headings, Heading{Level: h.Level, Text: plainText(h, body), Line: line})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

func codeRanges(body []byte) [][2]int {
	root := ParseBody(body)

	var ranges [][2]int
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			lines := node.Lines()
			if lines.Len() > 0 {
				ranges = append(ranges, [2]int{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					ranges = append(ranges, [2]int{t.Segment.Start, t.Segment.Stop})
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return ranges
}

func inRanges(ranges [][2]int, off int) bool {
	for _, r := range ranges {
		if off >= r[0] && off < r[1] {
			return true
		}
	}
	return false
}

func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func lineOf(body []byte, off int) int {
	return bytes.Count(body[:off], []byte("\n")) + 1
}
