package validation

import (
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

const matchTimeout = 100 * time.Millisecond

// patterns caches compiled schema regexes by source text.
var patterns sync.Map

// CompilePattern compiles a schema regex with ECMAScript semantics.
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp2.Regexp), nil
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = matchTimeout
	actual, _ := patterns.LoadOrStore(pattern, re)
	return actual.(*regexp2.Regexp), nil
}

// matchPattern reports whether s contains a match. A pattern that does not
// compile, or a match that times out, counts as a mismatch.
func matchPattern(pattern, s string) bool {
	re, err := CompilePattern(pattern)
	if err != nil {
		return false
	}
	ok, err := re.MatchString(s)
	return err == nil && ok
}
