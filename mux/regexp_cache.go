package mux

import (
	"regexp"
	"sync"
)

// compiledPatterns caches compiled route expressions keyed by pattern
// text. Routes sharing a template compile it once; the set of unique
// patterns is fixed after route registration, so the cache never needs
// eviction.
var compiledPatterns sync.Map

// compileRegexp returns the shared *regexp.Regexp for pattern, compiling
// it on first use. Concurrent callers for the same pattern receive the
// same instance.
func compileRegexp(pattern string) (*regexp.Regexp, error) {
	if v, ok := compiledPatterns.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := compiledPatterns.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}
