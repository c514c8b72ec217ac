package detection

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher decides whether a rule fires for a message
type Matcher interface {
	MatchString(message string) bool
}

// MatcherFunc adapts a plain function to Matcher
type MatcherFunc func(message string) bool

func (f MatcherFunc) MatchString(message string) bool { return f(message) }

// anyExceptLineTerminator is what an unescaped "." matches in rule patterns:
// any character except \n, \r, U+2028 and U+2029.
const anyExceptLineTerminator = `[^\n\r\x{2028}\x{2029}]`

// CompilePattern compiles a case-insensitive rule pattern. Go's regexp is RE2,
// so matching time is linear in the input regardless of the pattern.
func CompilePattern(pattern string) (Matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile("(?i)" + rewriteDot(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// rewriteDot replaces every unescaped "." outside a character class. RE2's
// "." only stops at \n.
func rewriteDot(pattern string) string {
	var b strings.Builder
	inClass := false
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			b.WriteRune(r)
			i++
			b.WriteRune(runes[i])
		case inClass:
			// a "]" right after "[" or "[^" is a literal
			if r == ']' && !(runes[i-1] == '[' || (runes[i-1] == '^' && i >= 2 && runes[i-2] == '[')) {
				inClass = false
			}
			b.WriteRune(r)
		case r == '[':
			inClass = true
			b.WriteRune(r)
		case r == '.':
			b.WriteString(anyExceptLineTerminator)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
