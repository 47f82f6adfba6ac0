package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/keywords"
	"github.com/cognicore/funstats/pkg/funstats/nlp"
	"github.com/cognicore/funstats/pkg/funstats/readability"
	"github.com/cognicore/funstats/pkg/funstats/sentiment"
	"github.com/cognicore/funstats/pkg/funstats/stoplist"
)

const (
	// DefaultTopKeywords is the number of key phrases kept per document.
	DefaultTopKeywords = 5

	// DefaultDocumentTimeout bounds the analysis of a single document.
	DefaultDocumentTimeout = 30 * time.Second
)

// SentenceStats summarizes sentence lengths, measured in tokens.
type SentenceStats struct {
	Count   int     `json:"sentence_count"`
	Average float64 `json:"average_sentence_length"`
	Longest int     `json:"longest_sentence_length"`
}

// DocStats is the full statistics bundle of one document.
type DocStats struct {
	Name string
	Size int64

	// AlphaTokens counts every alphabetic token, stop-words included.
	AlphaTokens      int
	LexicalDiversity float64

	// Words and POS exclude stop-words.
	Words *Counter
	POS   map[string]*Counter

	Sentences   SentenceStats
	Readability readability.Score
	Sentiment   sentiment.Score
	Entities    *Counter
	Keywords    []string

	// Degraded is set when analysis failed and the document carries
	// zero-valued statistics.
	Degraded bool
}

// ZeroStats returns the empty statistics of a document.
func ZeroStats(doc ingest.Document) DocStats {
	pos := make(map[string]*Counter, len(nlp.Categories))
	for _, cat := range nlp.Categories {
		pos[cat] = NewCounter()
	}
	return DocStats{
		Name:     doc.Name,
		Size:     doc.Size,
		Words:    NewCounter(),
		POS:      pos,
		Entities: NewCounter(),
		Keywords: []string{},
	}
}

// Options configures an Analyzer.
type Options struct {
	Annotator       nlp.Annotator
	Sentiment       sentiment.Scorer
	Keywords        keywords.Extractor
	Stoplist        *stoplist.Manager
	TopKeywords     int
	DocumentTimeout time.Duration
}

// Analyzer computes per-document statistics. It is safe for concurrent use
// when its annotator, scorer and extractor are.
type Analyzer struct {
	annotator   nlp.Annotator
	scorer      sentiment.Scorer
	extractor   keywords.Extractor
	stops       *stoplist.Manager
	topKeywords int
	timeout     time.Duration
}

// NewAnalyzer creates an analyzer. Missing services fall back to the basic
// annotator, the lexicon scorer, RAKE and the English stop-word list.
func NewAnalyzer(opts Options) *Analyzer {
	a := &Analyzer{
		annotator:   opts.Annotator,
		scorer:      opts.Sentiment,
		extractor:   opts.Keywords,
		stops:       opts.Stoplist,
		topKeywords: opts.TopKeywords,
		timeout:     opts.DocumentTimeout,
	}
	if a.stops == nil {
		a.stops = stoplist.Default()
	}
	if a.annotator == nil {
		a.annotator = nlp.NewBasicAnnotator()
	}
	if a.scorer == nil {
		a.scorer = sentiment.NewLexiconScorer(sentiment.DefaultLexicon())
	}
	if a.extractor == nil {
		a.extractor = keywords.NewRAKE(a.stops)
	}
	if a.topKeywords <= 0 {
		a.topKeywords = DefaultTopKeywords
	}
	if a.timeout <= 0 {
		a.timeout = DefaultDocumentTimeout
	}
	return a
}

// Analyze computes the statistics of one document. Failures inside the
// analysis (library errors, panics, the per-document deadline) degrade the
// document to zero-valued statistics. An error is returned only when ctx
// itself is done.
func (a *Analyzer) Analyze(ctx context.Context, doc ingest.Document) (DocStats, error) {
	if err := ctx.Err(); err != nil {
		return DocStats{}, err
	}

	docCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		stats DocStats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("analysis panic: %v", r)}
			}
		}()
		stats, err := a.analyze(docCtx, doc)
		done <- result{stats: stats, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-docCtx.Done():
		res.err = docCtx.Err()
	}

	if res.err != nil {
		if ctx.Err() != nil {
			return DocStats{}, ctx.Err()
		}
		event := log.Warn().Err(res.err).Str("document", doc.Name)
		if errors.Is(res.err, context.DeadlineExceeded) {
			event = event.Dur("timeout", a.timeout)
		}
		event.Msg("Document analysis failed, using zero statistics")

		stats := ZeroStats(doc)
		stats.Degraded = true
		return stats, nil
	}
	return res.stats, nil
}

func (a *Analyzer) analyze(ctx context.Context, doc ingest.Document) (DocStats, error) {
	ann, err := a.annotator.Annotate(ctx, doc.Text)
	if err != nil {
		return DocStats{}, err
	}

	stats := ZeroStats(doc)

	distinct := make(map[string]struct{})
	for _, tok := range ann.Tokens {
		if !ingest.IsAlpha(tok.Text) {
			continue
		}
		word := strings.ToLower(tok.Text)
		stats.AlphaTokens++
		distinct[word] = struct{}{}

		if a.stops.IsStop(word) {
			continue
		}
		stats.Words.Add(word, 1)
		if cat := nlp.Category(tok.Tag); cat != "" {
			stats.POS[cat].Add(word, 1)
		}
	}
	stats.LexicalDiversity = LexicalDiversity(len(distinct), stats.AlphaTokens)
	stats.Sentences = sentenceStats(ann.Sentences)

	stats.Readability = readability.FromAnnotated(ann)
	stats.Sentiment = a.scorer.Score(doc.Text)

	for _, e := range ann.Entities {
		if e.Label == "" {
			continue
		}
		stats.Entities.Add(e.Label, 1)
	}

	stats.Keywords = a.extractor.Extract(doc.Text, a.topKeywords)

	if err := ctx.Err(); err != nil {
		return DocStats{}, err
	}
	return stats, nil
}

// LexicalDiversity is distinct/total, or 0 when there are no tokens.
func LexicalDiversity(distinct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round4(float64(distinct) / float64(total))
}

func sentenceStats(sentences []nlp.Sentence) SentenceStats {
	var s SentenceStats
	total := 0
	for _, sent := range sentences {
		if sent.WordCount == 0 {
			continue
		}
		s.Count++
		total += sent.TokenCount
		if sent.TokenCount > s.Longest {
			s.Longest = sent.TokenCount
		}
	}
	if s.Count > 0 {
		s.Average = round4(float64(total) / float64(s.Count))
	}
	return s
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
