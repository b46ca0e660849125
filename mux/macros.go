package mux

import "regexp"

// varMatcher validates a single route variable value.
// *regexp.Regexp satisfies this interface.
type varMatcher interface {
	MatchString(string) bool
	String() string
}

// lengthMatcher wraps a regexp with a maximum length constraint, for
// patterns whose grammar alone cannot express a total-length bound.
type lengthMatcher struct {
	re     *regexp.Regexp
	maxLen int
}

func (m *lengthMatcher) MatchString(s string) bool {
	return len(s) <= m.maxLen && m.re.MatchString(s)
}

func (m *lengthMatcher) String() string {
	return m.re.String()
}

// macro holds a pattern string and its pre-compiled validation matcher.
type macro struct {
	pattern string
	matcher varMatcher
}

func newMacro(pattern string) macro {
	return macro{
		pattern: pattern,
		matcher: regexp.MustCompile("^" + pattern + "$"),
	}
}

func newBoundedMacro(pattern string, maxLen int) macro {
	return macro{
		pattern: pattern,
		matcher: &lengthMatcher{
			re:     regexp.MustCompile("^" + pattern + "$"),
			maxLen: maxLen,
		},
	}
}

// patternMacros maps the names usable in route variable definitions,
// {name:macro}, to their compiled patterns.
var patternMacros = map[string]macro{
	// RFC 4122 string form, case-insensitive.
	"uuid":     newMacro(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`),
	"int":      newMacro(`[0-9]+`),
	"float":    newMacro(`[0-9]*\.?[0-9]+`),
	"slug":     newMacro(`[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`),
	"alpha":    newMacro(`[a-zA-Z]+`),
	"alphanum": newMacro(`[a-zA-Z0-9]+`),
	// RFC 3339 full-date.
	"date": newMacro(`[0-9]{4}-[0-9]{2}-[0-9]{2}`),
	"hex":  newMacro(`[0-9a-fA-F]+`),
	// RFC 1035 Section 2.3.4: labels of 1 to 63 octets. The 253 octet
	// bound on the full name needs the extra length check.
	"domain": newBoundedMacro(`(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`, 253),
}

// expandMacro resolves a macro name to its regex pattern and pre-compiled
// matcher. Unknown names are returned unchanged with a nil matcher; the
// caller compiles those as raw patterns.
func expandMacro(pattern string) (string, varMatcher) {
	if m, ok := patternMacros[pattern]; ok {
		return m.pattern, m.matcher
	}
	return pattern, nil
}
