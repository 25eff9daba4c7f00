package directive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var keywordPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Rule maps a family of directive keywords to one wrapper.
type Rule struct {
	Name     string
	Keywords []string
	Wrapper  Wrapper
}

// DefaultRules returns the code-inclusion rule followed by the usage rule.
// The order is the order in which passes run over every fragment.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "code",
			Keywords: []string{"example", "codeblock"},
			Wrapper:  CodeWrapper{Language: DefaultLanguage},
		},
		{
			Name:     "usage",
			Keywords: []string{"usage", "expander"},
			Wrapper:  ExpanderWrapper{Language: DefaultLanguage, Summary: DefaultSummary},
		},
	}
}

// pattern matches a complete directive and captures its path.
func (r Rule) pattern() *regexp.Regexp {
	return regexp.MustCompile(`::(?:` + r.alternation() + `)='([^'\r\n]+)'::`)
}

// sentinel matches the leading part of any directive of this rule.
func (r Rule) sentinel() *regexp.Regexp {
	return regexp.MustCompile(`::(?:` + r.alternation() + `)=`)
}

func (r Rule) alternation() string {
	quoted := make([]string, len(r.Keywords))
	for i, kw := range r.Keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return strings.Join(quoted, "|")
}

// Validate checks a single rule in isolation.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("directive rule has no name")
	}
	if len(r.Keywords) == 0 {
		return fmt.Errorf("directive rule %q has no keywords", r.Name)
	}
	for _, kw := range r.Keywords {
		if !keywordPattern.MatchString(kw) {
			return fmt.Errorf("directive rule %q: invalid keyword %q", r.Name, kw)
		}
	}
	if r.Wrapper == nil {
		return fmt.Errorf("directive rule %q has no wrapper", r.Name)
	}
	return nil
}

// ValidateRules checks every rule and that no keyword or name is claimed twice.
// Disjoint keywords keep the substitution passes order-independent.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return errors.New("no directive rules configured")
	}
	owners := make(map[string]string)
	names := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := names[r.Name]; dup {
			return fmt.Errorf("duplicate directive rule name %q", r.Name)
		}
		names[r.Name] = struct{}{}
		for _, kw := range r.Keywords {
			if owner, taken := owners[kw]; taken {
				return fmt.Errorf("keyword %q used by both %q and %q", kw, owner, r.Name)
			}
			owners[kw] = r.Name
		}
	}
	return nil
}

// SentinelPattern matches the leading "::<keyword>=" of any directive of rules.
func SentinelPattern(rules []Rule) *regexp.Regexp {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, r.alternation())
	}
	return regexp.MustCompile(`::(?:` + strings.Join(parts, "|") + `)=`)
}
