// Package sentiment scores text polarity and subjectivity.
package sentiment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

// Score is the sentiment of one text. Polarity is in [-1, 1] and
// Subjectivity in [0, 1].
type Score struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Scorer is a sentiment strategy.
type Scorer interface {
	Score(text string) Score
	Name() string
}

// Strategy names accepted by New.
const (
	StrategyLexicon = "lexicon"
	StrategyRatio   = "ratio"
)

// New returns the scorer registered under name.
func New(name string) (Scorer, error) {
	switch strings.ToLower(name) {
	case "", StrategyLexicon:
		return NewLexiconScorer(DefaultLexicon()), nil
	case StrategyRatio:
		return NewRatioScorer(DefaultLexicon()), nil
	}
	return nil, fmt.Errorf("sentiment strategy %q: %w", name, internalerr.ErrInvalidConfig)
}

var wordPattern = regexp.MustCompile(`[\p{L}]+(?:['’][\p{L}]+)*`)

func words(text string) []string {
	found := wordPattern.FindAllString(text, -1)
	for i, w := range found {
		found[i] = strings.ToLower(strings.ReplaceAll(w, "’", "'"))
	}
	return found
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
