package plan

import (
	"regexp"
	"strings"
)

// excludeMatcher compiles a list of exclude patterns (spec.md §6
// `check_scope.exclude_tables`) once, supporting exact
// case-insensitive match and "*" wildcard translated to ".*". Patterns
// are anchored so "*" only expands within the pattern and never
// matches across a qualified-name boundary it wasn't written for —
// spec.md §9 flags exclude-pattern anchoring as something to document
// and test explicitly; anchoring the whole pattern is the decision
// recorded here (see DESIGN.md).
type excludeMatcher struct {
	patterns []*regexp.Regexp
}

func newExcludeMatcher(patterns []string) *excludeMatcher {
	m := &excludeMatcher{}
	for _, p := range patterns {
		escaped := regexp.QuoteMeta(strings.ToUpper(p))
		escaped = strings.ReplaceAll(escaped, `\*`, ".*")
		m.patterns = append(m.patterns, regexp.MustCompile("^"+escaped+"$"))
	}
	return m
}

// Match reports whether the fully-qualified name matches any exclude
// pattern, case-insensitively.
func (m *excludeMatcher) Match(qualifiedName string) bool {
	upper := strings.ToUpper(qualifiedName)
	for _, re := range m.patterns {
		if re.MatchString(upper) {
			return true
		}
	}
	return false
}

// Idempotent filters a table name list through the matcher twice and
// reports whether the result is unchanged — spec.md §8 property 7.
func Idempotent(patterns []string, names []string) bool {
	m := newExcludeMatcher(patterns)
	once := filterExcluded(m, names)
	twice := filterExcluded(newExcludeMatcher(patterns), once)
	if len(once) != len(twice) {
		return false
	}
	for i := range once {
		if once[i] != twice[i] {
			return false
		}
	}
	return true
}

func filterExcluded(m *excludeMatcher, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !m.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
