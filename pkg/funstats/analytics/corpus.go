package analytics

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/nlp"
)

// NoDocument is reported as the longest document of an empty corpus.
const NoDocument = "None"

// Corpus folds per-document statistics into corpus-wide totals. Documents
// must be added in canonical (file name) order so that frequency ties
// resolve the same way on every run.
type Corpus struct {
	docs        []DocStats
	words       *Counter
	pos         map[string]*Counter
	entities    *Counter
	totalWords  int
	longestName string
	longestSize int64
}

// NewCorpus creates an empty corpus
func NewCorpus() *Corpus {
	pos := make(map[string]*Counter, len(nlp.Categories))
	for _, cat := range nlp.Categories {
		pos[cat] = NewCounter()
	}
	return &Corpus{
		words:    NewCounter(),
		pos:      pos,
		entities: NewCounter(),
	}
}

// Add consumes one document's statistics.
func (c *Corpus) Add(d DocStats) {
	c.docs = append(c.docs, d)
	c.totalWords += d.AlphaTokens
	c.words.Merge(d.Words)
	for cat, counter := range d.POS {
		if c.pos[cat] == nil {
			c.pos[cat] = NewCounter()
		}
		c.pos[cat].Merge(counter)
	}
	c.entities.Merge(d.Entities)

	if len(c.docs) == 1 || d.Size > c.longestSize {
		c.longestName = d.Name
		c.longestSize = d.Size
	}
}

// Documents returns the per-document statistics in the order they were added.
func (c *Corpus) Documents() []DocStats {
	return c.docs
}

// DocumentCount is the number of documents added.
func (c *Corpus) DocumentCount() int {
	return len(c.docs)
}

// TotalWords sums the alphabetic token counts of every document.
func (c *Corpus) TotalWords() int {
	return c.totalWords
}

// AverageWords is TotalWords floor-divided by DocumentCount, 0 for an
// empty corpus.
func (c *Corpus) AverageWords() int {
	if len(c.docs) == 0 {
		return 0
	}
	return c.totalWords / len(c.docs)
}

// Longest returns the name of the document with the largest raw size, the
// first one on ties, or NoDocument when the corpus is empty.
func (c *Corpus) Longest() string {
	if len(c.docs) == 0 {
		return NoDocument
	}
	return c.longestName
}

// Words exposes the corpus-wide word counter (stop-words excluded).
func (c *Corpus) Words() *Counter {
	return c.words
}

// TopWords returns the n most frequent words.
func (c *Corpus) TopWords(n int) []Count {
	return c.words.MostCommon(n)
}

// TopPOS returns the n most frequent words of each part-of-speech category.
func (c *Corpus) TopPOS(n int) map[string][]Count {
	out := make(map[string][]Count, len(c.pos))
	for cat, counter := range c.pos {
		out[cat] = counter.MostCommon(n)
	}
	return out
}

// Entities exposes the corpus-wide entity label tally.
func (c *Corpus) Entities() *Counter {
	return c.entities
}

// TopEntities returns the n most frequent entity labels.
func (c *Corpus) TopEntities(n int) []Count {
	return c.entities.MostCommon(n)
}

// AnalyzeAll analyzes docs with at most workers concurrent analyses and
// returns the results in input order. workers <= 0 uses one per CPU.
func (a *Analyzer) AnalyzeAll(ctx context.Context, docs []ingest.Document, workers int) ([]DocStats, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]DocStats, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range docs {
		i := i
		g.Go(func() error {
			stats, err := a.Analyze(gctx, docs[i])
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Aggregate analyzes docs and folds them into a corpus in input order.
func (a *Analyzer) Aggregate(ctx context.Context, docs []ingest.Document, workers int) (*Corpus, error) {
	results, err := a.AnalyzeAll(ctx, docs, workers)
	if err != nil {
		return nil, err
	}
	corpus := NewCorpus()
	for _, r := range results {
		corpus.Add(r)
	}
	return corpus, nil
}
