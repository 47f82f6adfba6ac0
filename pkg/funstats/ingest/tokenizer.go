package ingest

import (
	"strings"
	"unicode"

	"github.com/cognicore/funstats/pkg/funstats/stoplist"
)

// Tokenizer splits plain text into lowercase word tokens.
type Tokenizer struct {
	stops *stoplist.Manager
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stops *stoplist.Manager) *Tokenizer {
	if stops == nil {
		stops = stoplist.NewManager(nil)
	}
	return &Tokenizer{stops: stops}
}

// Words returns every word token, lowercased, stop-words included.
// Letters, digits, apostrophes and inner hyphens are kept together.
func (t *Tokenizer) Words(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := cleanToken(current.String())
		if word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '\'' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// Tokenize returns the word tokens that carry meaning: stop-words and
// pure numbers are removed.
func (t *Tokenizer) Tokenize(text string) []string {
	words := t.Words(text)
	out := words[:0]
	for _, w := range words {
		if isNumericOnly(w) || t.stops.IsStop(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// cleanToken strips leading/trailing hyphens and apostrophes and normalizes
// consecutive hyphens
func cleanToken(token string) string {
	token = strings.Trim(token, "-'")

	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}

	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// IsAlpha reports whether every rune of s is a letter. The empty string is
// not alphabetic.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
