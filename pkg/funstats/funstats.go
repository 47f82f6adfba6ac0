// Package funstats runs the corpus statistics pipeline: load the articles,
// analyze each one, fold the results into a snapshot and write the snapshot,
// the word cloud and the stats page.
package funstats

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cognicore/funstats/internal/logging"
	"github.com/cognicore/funstats/pkg/funstats/analytics"
	"github.com/cognicore/funstats/pkg/funstats/config"
	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/internalerr"
	"github.com/cognicore/funstats/pkg/funstats/report"
	"github.com/cognicore/funstats/pkg/funstats/snapshot"
	"github.com/cognicore/funstats/pkg/funstats/store"
	"github.com/cognicore/funstats/pkg/funstats/store/sqlite"
	"github.com/cognicore/funstats/pkg/funstats/wordcloud"
)

// Engine is the pipeline facade
type Engine struct {
	loader        *ingest.Loader
	analyzer      *analytics.Analyzer
	workers       int
	limits        snapshot.Limits
	snapshotPath  string
	cloud         *wordcloud.Renderer
	wordCloudPath string
	reportPath    string
	reportOpts    report.Options
	store         store.Store
	ids           *store.IDs
	now           func() time.Time
	closers       []func() error
}

// Options configures an Engine. Only Loader and SnapshotPath are required;
// an empty output path skips that output and a nil Store skips history.
type Options struct {
	Loader        *ingest.Loader
	Analyzer      *analytics.Analyzer
	Workers       int
	Limits        snapshot.Limits
	SnapshotPath  string
	WordCloud     *wordcloud.Renderer
	WordCloudPath string
	ReportPath    string
	Report        report.Options
	Store         store.Store
	Clock         func() time.Time
}

// New creates an engine with the given dependencies
func New(opts Options) *Engine {
	e := &Engine{
		loader:        opts.Loader,
		analyzer:      opts.Analyzer,
		workers:       opts.Workers,
		limits:        opts.Limits,
		snapshotPath:  opts.SnapshotPath,
		cloud:         opts.WordCloud,
		wordCloudPath: opts.WordCloudPath,
		reportPath:    opts.ReportPath,
		reportOpts:    opts.Report,
		store:         opts.Store,
		ids:           store.NewIDs(),
		now:           opts.Clock,
	}
	if e.analyzer == nil {
		e.analyzer = analytics.NewAnalyzer(analytics.Options{})
	}
	if e.limits == (snapshot.Limits{}) {
		e.limits = snapshot.DefaultLimits()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.reportOpts.WordCloud == "" && e.reportPath != "" && e.wordCloudPath != "" {
		e.reportOpts.WordCloud = relativeLink(e.reportPath, e.wordCloudPath)
	}
	return e
}

// Open builds an engine and every service it needs from cfg. The caller must
// Close the engine.
func Open(ctx context.Context, cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp, err := cfg.Loader().Load()
	if err != nil {
		return nil, err
	}

	opts := Options{
		Loader: &ingest.Loader{
			Root:      cfg.ArticlesDir,
			Extension: cfg.Extension,
			Exclude:   cfg.Exclude,
		},
		Analyzer: analytics.NewAnalyzer(analytics.Options{
			Annotator:       comp.Annotator,
			Sentiment:       comp.Sentiment,
			Keywords:        comp.Keywords,
			Stoplist:        comp.Stoplist,
			TopKeywords:     cfg.TopKeywords,
			DocumentTimeout: cfg.DocumentTimeout,
		}),
		Workers:       cfg.Workers,
		Limits:        cfg.Limits(),
		SnapshotPath:  cfg.Output.Snapshot,
		WordCloudPath: cfg.Output.WordCloud,
		ReportPath:    cfg.Output.Report,
	}
	closers := []func() error{comp.Close}

	if opts.WordCloudPath != "" {
		r, err := wordcloud.NewRenderer(wordcloud.Options{
			Width:    cfg.WordCloud.Width,
			Height:   cfg.WordCloud.Height,
			MaxWords: cfg.WordCloud.MaxWords,
		})
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		opts.WordCloud = r
		closers = append(closers, r.Close)
	}

	if cfg.History.Path != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.History.Path)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		opts.Store = st
		closers = append(closers, st.Close)
	}

	e := New(opts)
	e.closers = closers
	return e, nil
}

// Close releases the services opened by Open.
func (e *Engine) Close() error {
	err := closeAll(e.closers)
	e.closers = nil
	return err
}

func closeAll(closers []func() error) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run executes the pipeline once. The snapshot, image and page are replaced
// atomically; any write failure fails the run.
func (e *Engine) Run(ctx context.Context) (*snapshot.Snapshot, error) {
	if e.loader == nil || e.snapshotPath == "" {
		return nil, fmt.Errorf("%w: engine needs a loader and a snapshot path", internalerr.ErrInvalidConfig)
	}
	logger := logging.Component("engine")
	started := e.now()

	docs, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	logger.Info().Str("dir", e.loader.Root).Int("documents", len(docs)).Msg("Loaded documents")

	corpus, err := e.analyzer.Aggregate(ctx, docs, e.workers)
	if err != nil {
		return nil, fmt.Errorf("analyze documents: %w", err)
	}
	degraded := 0
	for _, d := range corpus.Documents() {
		if d.Degraded {
			degraded++
		}
	}

	snap := snapshot.Build(corpus, e.limits, started)
	if err := snapshot.Write(e.snapshotPath, snap); err != nil {
		return nil, err
	}
	logger.Info().
		Str("path", e.snapshotPath).
		Int("documents", snap.DocumentCount).
		Int("words", snap.TotalWordCount).
		Int("degraded", degraded).
		Msg("Wrote snapshot")

	if e.cloud != nil && e.wordCloudPath != "" {
		if err := e.cloud.WriteFile(e.wordCloudPath, corpus.Words().MostCommon(-1)); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", e.wordCloudPath).Msg("Wrote word cloud")
	}

	if e.reportPath != "" {
		if err := report.WriteFile(e.reportPath, snap, e.reportOpts); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", e.reportPath).Msg("Wrote report")
	}

	if e.store != nil {
		id, err := e.record(ctx, corpus, snap)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("run_id", id).Msg("Recorded run")
	}

	logger.Info().Dur("elapsed", e.now().Sub(started)).Msg("Run complete")
	return snap, nil
}

func (e *Engine) record(ctx context.Context, corpus *analytics.Corpus, snap *snapshot.Snapshot) (string, error) {
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return "", err
	}

	docs := corpus.Documents()
	records := make([]store.DocumentRecord, len(docs))
	for i, d := range docs {
		records[i] = store.DocumentRecord{
			Name:        d.Name,
			Size:        d.Size,
			AlphaTokens: d.AlphaTokens,
			Degraded:    d.Degraded,
		}
	}

	run := store.Run{
		ID:              e.ids.New(snap.GeneratedAt),
		GeneratedAt:     snap.GeneratedAt,
		DocumentCount:   snap.DocumentCount,
		TotalWordCount:  snap.TotalWordCount,
		LongestDocument: snap.LongestDocument,
		Documents:       records,
		Snapshot:        data,
	}
	if err := e.store.RecordRun(ctx, run); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// relativeLink returns target as a slash-separated path relative to the
// directory of page, or target itself when no relative path exists.
func relativeLink(page, target string) string {
	rel, err := filepath.Rel(filepath.Dir(page), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
