// Package keywords extracts ranked key phrases from text.
package keywords

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/internalerr"
	"github.com/cognicore/funstats/pkg/funstats/stoplist"
)

// Extractor is a keyword strategy. Extract returns at most n phrases in
// descending relevance; equally relevant phrases keep their order of first
// appearance.
type Extractor interface {
	Extract(text string, n int) []string
	Name() string
}

// Strategy names accepted by New.
const (
	StrategyRAKE      = "rake"
	StrategyFrequency = "frequency"
)

// New returns the extractor registered under name, filtering with stops.
func New(name string, stops *stoplist.Manager) (Extractor, error) {
	switch strings.ToLower(name) {
	case "", StrategyRAKE:
		return NewRAKE(stops), nil
	case StrategyFrequency:
		return NewFrequency(ingest.NewTokenizer(stops)), nil
	}
	return nil, fmt.Errorf("keyword strategy %q: %w", name, internalerr.ErrInvalidConfig)
}

// Frequency ranks single words by occurrence count.
type Frequency struct {
	tokenizer *ingest.Tokenizer
}

// NewFrequency creates a frequency extractor
func NewFrequency(tokenizer *ingest.Tokenizer) *Frequency {
	return &Frequency{tokenizer: tokenizer}
}

// Name implements Extractor.
func (f *Frequency) Name() string { return StrategyFrequency }

// Extract implements Extractor.
func (f *Frequency) Extract(text string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range f.tokenizer.Tokenize(text) {
		if _, ok := counts[w]; !ok {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return limit(order, n)
}

func limit(phrases []string, n int) []string {
	if n >= 0 && len(phrases) > n {
		phrases = phrases[:n]
	}
	if phrases == nil {
		return []string{}
	}
	return phrases
}
