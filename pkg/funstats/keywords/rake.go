package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/cognicore/funstats/pkg/funstats/stoplist"
)

// DefaultMaxPhraseWords caps candidate phrase length.
const DefaultMaxPhraseWords = 3

var rakeToken = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// RAKE implements Rapid Automatic Keyword Extraction: candidate phrases are
// runs of content words between stop-words and punctuation, and each phrase
// scores the sum of its words' degree/frequency ratios.
type RAKE struct {
	stops    *stoplist.Manager
	MaxWords int
}

// NewRAKE creates a RAKE extractor
func NewRAKE(stops *stoplist.Manager) *RAKE {
	return &RAKE{stops: stops, MaxWords: DefaultMaxPhraseWords}
}

// Name implements Extractor.
func (r *RAKE) Name() string { return StrategyRAKE }

// Extract implements Extractor.
func (r *RAKE) Extract(text string, n int) []string {
	phrases := r.candidates(text)

	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, p := range phrases {
		for _, w := range p {
			freq[w]++
			degree[w] += len(p)
		}
	}

	type ranked struct {
		phrase string
		score  float64
	}
	var ranking []ranked
	seen := make(map[string]struct{})
	for _, p := range phrases {
		key := strings.Join(p, " ")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		var score float64
		for _, w := range p {
			score += float64(degree[w]) / float64(freq[w])
		}
		ranking = append(ranking, ranked{phrase: key, score: score})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].score > ranking[j].score
	})

	out := make([]string, len(ranking))
	for i, rk := range ranking {
		out[i] = rk.phrase
	}
	return limit(out, n)
}

// candidates splits text into lowercase content-word phrases.
func (r *RAKE) candidates(text string) [][]string {
	maxWords := r.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxPhraseWords
	}

	var phrases [][]string
	var current []string
	flush := func() {
		if len(current) > 0 && len(current) <= maxWords {
			phrases = append(phrases, current)
		}
		current = nil
	}

	for _, tok := range rakeToken.FindAllString(text, -1) {
		word := strings.ToLower(strings.ReplaceAll(tok, "’", "'"))
		if !isContentWord(word) || r.stops.IsStop(word) {
			flush()
			continue
		}
		current = append(current, word)
	}
	flush()

	return phrases
}

// isContentWord rejects punctuation and pure numbers.
func isContentWord(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}
