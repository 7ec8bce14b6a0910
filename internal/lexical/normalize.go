// Package lexical turns source text into the token stream and TF-IDF vector
// the ensemble was trained on.
package lexical

import (
	"regexp"
	"strings"
)

var (
	commentPattern = regexp.MustCompile(`//.*|#.*`)
	symbolPattern  = regexp.MustCompile(`[^a-z0-9_ ]`)
)

// Normalize strips line comments, lowercases, replaces symbols with spaces and
// drops English stop words. The result is a single-space-joined token stream.
func Normalize(source string) string {
	code := commentPattern.ReplaceAllString(source, "")
	code = strings.ToLower(code)
	code = symbolPattern.ReplaceAllString(code, " ")

	fields := strings.Fields(code)
	tokens := fields[:0]
	for _, tok := range fields {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}
