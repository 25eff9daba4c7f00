package directive

import (
	"fmt"
	"strings"
)

// WrapperKind names a wrapper template in configuration.
type WrapperKind string

const (
	WrapperCode     WrapperKind = "code"
	WrapperExpander WrapperKind = "expander"
)

const (
	DefaultLanguage = "tsx"
	DefaultSummary  = "show usage"
)

// Wrapper formats inlined file content.
type Wrapper interface {
	Kind() WrapperKind
	Wrap(content string) string
}

// CodeWrapper renders content as a fenced code block.
type CodeWrapper struct {
	// Language is the fence info string. It is a fixed tag, never derived from
	// the included file's extension.
	Language string
}

func (w CodeWrapper) Kind() WrapperKind { return WrapperCode }

// Wrap embeds content verbatim; a trailing newline in content stays inside the fence.
func (w CodeWrapper) Wrap(content string) string {
	var b strings.Builder
	b.Grow(len(content) + len(w.Language) + 8)
	b.WriteString("```")
	b.WriteString(w.Language)
	b.WriteByte('\n')
	b.WriteString(content)
	b.WriteString("\n```")
	return b.String()
}

// ExpanderWrapper renders content as a code block inside a collapsed <details> block.
type ExpanderWrapper struct {
	Language string
	Summary  string
}

func (w ExpanderWrapper) Kind() WrapperKind { return WrapperExpander }

func (w ExpanderWrapper) Wrap(content string) string {
	code := CodeWrapper{Language: w.Language}.Wrap(content)
	return "<details><summary>" + w.Summary + "</summary><p>\n\n" + code + "\n</p></details>"
}

// NewWrapper builds the wrapper registered under kind. Empty language and summary
// fall back to DefaultLanguage and DefaultSummary.
func NewWrapper(kind WrapperKind, language, summary string) (Wrapper, error) {
	if language == "" {
		language = DefaultLanguage
	}
	switch kind {
	case WrapperCode:
		return CodeWrapper{Language: language}, nil
	case WrapperExpander:
		if summary == "" {
			summary = DefaultSummary
		}
		return ExpanderWrapper{Language: language, Summary: summary}, nil
	default:
		return nil, fmt.Errorf("unknown wrapper kind %q (expected %q or %q)", kind, WrapperCode, WrapperExpander)
	}
}
