package directive

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Match is one directive token found in a text.
// Start and End are byte offsets into the scanned text, End exclusive.
type Match struct {
	Start int
	End   int
	Path  string
	Rule  Rule
}

// SyntaxError reports a directive that starts with a known keyword but does not
// carry a well-formed path argument.
type SyntaxError struct {
	Line   int
	Column int
	Token  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d col %d: %s: %q", e.Line, e.Column, e.Reason, e.Token)
}

// Scan finds every directive of rule r in text, left to right, non-overlapping.
func Scan(text string, r Rule) ([]Match, error) {
	return Plan(text, []Rule{r})
}

// Plan scans text for each rule in order and returns the accepted matches sorted
// by offset. A match that overlaps one accepted for an earlier rule is dropped:
// the earlier directive consumes it, as it would when passes run one after another.
func Plan(text string, rules []Rule) ([]Match, error) {
	var accepted []Match
	for _, r := range rules {
		for _, loc := range r.pattern().FindAllStringSubmatchIndex(text, -1) {
			m := Match{Start: loc[0], End: loc[1], Path: text[loc[2]:loc[3]], Rule: r}
			if overlaps(accepted, m.Start, m.End) {
				continue
			}
			if filepath.IsAbs(m.Path) {
				return nil, newSyntaxError(text, m.Start, m.End, "directive path must be relative")
			}
			accepted = append(accepted, m)
		}
	}

	for _, r := range rules {
		for _, loc := range r.sentinel().FindAllStringIndex(text, -1) {
			if covered(accepted, loc[0]) {
				continue
			}
			return nil, newSyntaxError(text, loc[0], tokenEnd(text, loc[1]), "malformed directive")
		}
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].Start < accepted[j].Start })
	return accepted, nil
}

func overlaps(ms []Match, start, end int) bool {
	for _, m := range ms {
		if start < m.End && m.Start < end {
			return true
		}
	}
	return false
}

func covered(ms []Match, off int) bool {
	for _, m := range ms {
		if off >= m.Start && off < m.End {
			return true
		}
	}
	return false
}

// tokenEnd extends a sentinel to the next closing "::" or end of line for error display.
func tokenEnd(text string, from int) int {
	rest := text[from:]
	if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "::"); i >= 0 {
		return from + i + 2
	}
	return from + len(rest)
}

func newSyntaxError(text string, start, end int, reason string) *SyntaxError {
	line := strings.Count(text[:start], "\n") + 1
	col := start - strings.LastIndex(text[:start], "\n")
	return &SyntaxError{Line: line, Column: col, Token: text[start:end], Reason: reason}
}
