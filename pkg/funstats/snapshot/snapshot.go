// Package snapshot serializes the statistics of one run. The snapshot is the
// single input of every presentation of the results.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cognicore/funstats/internal/atomicfile"
	"github.com/cognicore/funstats/pkg/funstats/analytics"
	"github.com/cognicore/funstats/pkg/funstats/nlp"
	"github.com/cognicore/funstats/pkg/funstats/readability"
	"github.com/cognicore/funstats/pkg/funstats/sentiment"
)

// WordCount is a ranked word.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// EntityCount is a ranked entity label.
type EntityCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Snapshot is the aggregate statistics of one run.
type Snapshot struct {
	DocumentCount           int                                `json:"document_count"`
	TotalWordCount          int                                `json:"total_word_count"`
	AverageWordsPerDocument int                                `json:"average_words_per_document"`
	LongestDocument         string                             `json:"longest_document_name"`
	TopWords                []WordCount                        `json:"top_words"`
	TopPOS                  map[string][]WordCount             `json:"top_pos"`
	LexicalDiversity        map[string]float64                 `json:"lexical_diversity"`
	Sentences               map[string]analytics.SentenceStats `json:"sentences"`
	Readability             map[string]readability.Score       `json:"readability"`
	Sentiment               map[string]sentiment.Score         `json:"sentiment"`
	Entities                []EntityCount                      `json:"entities"`
	Keywords                map[string][]string                `json:"keywords"`
	GeneratedAt             time.Time                          `json:"generated_at"`
}

// Limits bounds the ranked lists of a snapshot.
type Limits struct {
	TopWords    int
	TopPOS      int
	TopEntities int
}

// DefaultLimits returns the limits the stats page has always used.
func DefaultLimits() Limits {
	return Limits{TopWords: 10, TopPOS: 5, TopEntities: 10}
}

// Build assembles a snapshot from the corpus. It depends on nothing but its
// arguments: the same corpus and time give the same snapshot.
func Build(c *analytics.Corpus, limits Limits, now time.Time) *Snapshot {
	s := &Snapshot{
		DocumentCount:           c.DocumentCount(),
		TotalWordCount:          c.TotalWords(),
		AverageWordsPerDocument: c.AverageWords(),
		LongestDocument:         c.Longest(),
		TopWords:                wordCounts(c.TopWords(limits.TopWords)),
		TopPOS:                  make(map[string][]WordCount, len(nlp.Categories)),
		LexicalDiversity:        make(map[string]float64),
		Sentences:               make(map[string]analytics.SentenceStats),
		Readability:             make(map[string]readability.Score),
		Sentiment:               make(map[string]sentiment.Score),
		Entities:                entityCounts(c.TopEntities(limits.TopEntities)),
		Keywords:                make(map[string][]string),
		GeneratedAt:             now.UTC().Truncate(time.Second),
	}

	for cat, counts := range c.TopPOS(limits.TopPOS) {
		s.TopPOS[cat] = wordCounts(counts)
	}

	for _, d := range c.Documents() {
		s.LexicalDiversity[d.Name] = d.LexicalDiversity
		s.Sentences[d.Name] = d.Sentences
		s.Readability[d.Name] = d.Readability
		s.Sentiment[d.Name] = d.Sentiment
		kw := d.Keywords
		if kw == nil {
			kw = []string{}
		}
		s.Keywords[d.Name] = kw
	}
	return s
}

func wordCounts(counts []analytics.Count) []WordCount {
	out := make([]WordCount, len(counts))
	for i, c := range counts {
		out[i] = WordCount{Word: c.Key, Count: c.Count}
	}
	return out
}

func entityCounts(counts []analytics.Count) []EntityCount {
	out := make([]EntityCount, len(counts))
	for i, c := range counts {
		out[i] = EntityCount{Label: c.Key, Count: c.Count}
	}
	return out
}

// Marshal encodes the snapshot as indented UTF-8 JSON with a trailing newline.
// HTML characters are not escaped so document names stay readable.
func Marshal(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the snapshot file at path atomically.
func Write(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot file.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &s, nil
}
