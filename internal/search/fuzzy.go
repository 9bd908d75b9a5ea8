// internal/search/fuzzy.go

// Package search implements the loose name matching used by catalog search.
//
// A query is reduced to its ASCII letters and digits, and between every pair of
// remaining characters any run of whitespace or hyphens is tolerated, so "mt 25",
// "mt25" and "MT-25" all find "Yamaha MT-25". Matching is case-insensitive and
// unanchored.
package search

import (
	"regexp"
	"strings"
)

// gapClass is the tolerated separator between two query characters. It is valid
// in both RE2 and PostgreSQL regular expressions.
const gapClass = `[\s-]*`

// Clean keeps only the ASCII letters and digits of q, in order.
func Clean(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for i := 0; i < len(q); i++ {
		c := q[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Pattern builds the tolerant pattern for q. ok is false when q has no letters
// or digits; such a query matches nothing.
func Pattern(q string) (pattern string, ok bool) {
	clean := Clean(q)
	if clean == "" {
		return "", false
	}
	return strings.Join(strings.Split(clean, ""), gapClass), true
}

// Matcher is a compiled query.
type Matcher struct {
	re *regexp.Regexp
}

// Compile returns a matcher for q. A query without letters or digits yields a
// matcher that rejects every target.
func Compile(q string) *Matcher {
	pattern, ok := Pattern(q)
	if !ok {
		return &Matcher{}
	}
	return &Matcher{re: regexp.MustCompile("(?i)" + pattern)}
}

// Match reports whether target loosely contains the query.
func (m *Matcher) Match(target string) bool {
	if m.re == nil {
		return false
	}
	return m.re.MatchString(target)
}

// Empty reports whether the matcher can never match.
func (m *Matcher) Empty() bool {
	return m.re == nil
}

// DisplayName is the synthesized field searched for models: brand name, a space,
// then the model name.
func DisplayName(brandName, modelName string) string {
	return brandName + " " + modelName
}
