package funstats

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/funstats/pkg/funstats/analytics"
	"github.com/cognicore/funstats/pkg/funstats/config"
	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/internalerr"
	"github.com/cognicore/funstats/pkg/funstats/nlp"
	"github.com/cognicore/funstats/pkg/funstats/snapshot"
	"github.com/cognicore/funstats/pkg/funstats/store/memstore"
	"github.com/cognicore/funstats/pkg/funstats/wordcloud"
)

var frozen = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func frozenClock() time.Time { return frozen }

func writeArticles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newEngine(t *testing.T, articles, out string, mutate func(*Options)) *Engine {
	t.Helper()
	opts := Options{
		Loader:       &ingest.Loader{Root: articles, Exclude: config.DefaultExclude},
		Analyzer:     analytics.NewAnalyzer(analytics.Options{Annotator: nlp.NewBasicAnnotator()}),
		Workers:      2,
		SnapshotPath: filepath.Join(out, "stats.json"),
		Clock:        frozenClock,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts)
}

func TestRunEmptyCorpus(t *testing.T) {
	articles := writeArticles(t, map[string]string{"index.html": "<p>home page words</p>"})
	out := t.TempDir()

	snap, err := newEngine(t, articles, out, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snap.DocumentCount)
	assert.Zero(t, snap.AverageWordsPerDocument)
	assert.Equal(t, analytics.NoDocument, snap.LongestDocument)

	data, err := os.ReadFile(filepath.Join(out, "stats.json"))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["top_words"])
}

func TestRunExcludesSitePages(t *testing.T) {
	articles := writeArticles(t, map[string]string{
		"index.html":  "<p>Navigation navigation navigation.</p>",
		"stats.html":  "<p>Old stats.</p>",
		"notes.txt":   "plain text is ignored",
		"cats.html":   "<html><body><p>Cats chase small mice.</p></body></html>",
		"rivers.html": "<p>Rivers flow. Rivers carve deep canyons slowly.</p>",
	})

	snap, err := newEngine(t, articles, t.TempDir(), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snap.DocumentCount)
	assert.Contains(t, snap.Sentences, "cats.html")
	assert.Contains(t, snap.Sentences, "rivers.html")
	assert.Equal(t, "rivers", snap.TopWords[0].Word)
	for _, w := range snap.TopWords {
		assert.NotEqual(t, "navigation", w.Word)
	}
}

func TestRunByteIdenticalSnapshots(t *testing.T) {
	articles := writeArticles(t, map[string]string{
		"a.html": "<p>Kiwi banana cherry. Kiwi!</p>",
		"b.html": "<p>Banana kiwi. Cherry cherry.</p>",
		"c.html": "<p>Date banana.</p>",
	})
	first, second := t.TempDir(), t.TempDir()

	_, err := newEngine(t, articles, first, func(o *Options) { o.Workers = 1 }).Run(context.Background())
	require.NoError(t, err)
	_, err = newEngine(t, articles, second, func(o *Options) { o.Workers = 8 }).Run(context.Background())
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(first, "stats.json"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(second, "stats.json"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunWritesAllOutputsAndHistory(t *testing.T) {
	articles := writeArticles(t, map[string]string{
		"go.html": "<p>Go makes concurrency simple. Gophers love channels.</p>",
	})
	out := t.TempDir()
	renderer, err := wordcloud.NewRenderer(wordcloud.Options{Width: 200, Height: 100})
	require.NoError(t, err)
	defer renderer.Close()
	history := memstore.New()

	e := newEngine(t, articles, out, func(o *Options) {
		o.WordCloud = renderer
		o.WordCloudPath = filepath.Join(out, "images", "wordcloud.png")
		o.ReportPath = filepath.Join(out, "stats.html")
		o.Store = history
	})
	snap, err := e.Run(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "images", "wordcloud.png"))
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(out, "stats.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `src="images/wordcloud.png"`)
	assert.Contains(t, string(page), "Longest: go</p>")

	runs, err := history.Runs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, snap.TotalWordCount, runs[0].TotalWordCount)

	run, err := history.GetRun(context.Background(), runs[0].ID)
	require.NoError(t, err)
	require.Len(t, run.Documents, 1)
	stored, err := snapshot.Marshal(snap)
	require.NoError(t, err)
	assert.Equal(t, string(stored), string(run.Snapshot))
}

func TestRunSnapshotWriteFailure(t *testing.T) {
	articles := writeArticles(t, map[string]string{"a.html": "<p>Words here.</p>"})
	out := t.TempDir()
	blocker := filepath.Join(out, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o644))

	e := newEngine(t, articles, out, func(o *Options) {
		o.SnapshotPath = filepath.Join(blocker, "stats.json")
	})
	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "snapshot"))
}

func TestRunMissingArticlesDir(t *testing.T) {
	e := newEngine(t, filepath.Join(t.TempDir(), "missing"), t.TempDir(), nil)

	_, err := e.Run(context.Background())
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

// brokenFS fails every open of one file name.
type brokenFS struct {
	fs.FS
	name string
}

func (b brokenFS) Open(name string) (fs.File, error) {
	if name == b.name {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return b.FS.Open(name)
}

func TestRunUnreadableDocumentWritesNothing(t *testing.T) {
	articles := writeArticles(t, map[string]string{
		"a.html": "<p>Fine words.</p>",
		"b.html": "<p>Locked words.</p>",
	})
	out := t.TempDir()

	e := newEngine(t, articles, out, func(o *Options) {
		o.Loader.FS = brokenFS{FS: os.DirFS(articles), name: "b.html"}
		o.ReportPath = filepath.Join(out, "stats.html")
	})
	snap, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.True(t, errors.Is(err, internalerr.ErrUnreadableDocument))

	for _, name := range []string{"stats.json", "stats.html"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.Truef(t, errors.Is(err, fs.ErrNotExist), "%s was written", name)
	}
}

func TestRunDegradedDocumentStillCounted(t *testing.T) {
	articles := writeArticles(t, map[string]string{
		"big.html":   "<p>" + strings.Repeat("boom ", 50) + "</p>",
		"small.html": "<p>Tiny text.</p>",
	})

	e := newEngine(t, articles, t.TempDir(), func(o *Options) {
		o.Analyzer = analytics.NewAnalyzer(analytics.Options{Annotator: panickyAnnotator{}})
	})
	snap, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snap.DocumentCount)
	assert.Equal(t, "big.html", snap.LongestDocument)
	assert.Equal(t, analytics.SentenceStats{}, snap.Sentences["big.html"])
	assert.Equal(t, 1, snap.Sentences["small.html"].Count)
}

func TestOpenFromConfig(t *testing.T) {
	articles := writeArticles(t, map[string]string{"a.html": "<p>Happy readers enjoy clear prose.</p>"})
	out := t.TempDir()

	cfg := config.Default()
	cfg.ArticlesDir = articles
	cfg.Annotator = nlp.AnnotatorBasic
	cfg.Output.Snapshot = filepath.Join(out, "stats.json")
	cfg.Output.WordCloud = filepath.Join(out, "wordcloud.png")
	cfg.Output.Report = filepath.Join(out, "stats.html")
	cfg.History.Path = filepath.Join(out, "history.db")

	e, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer e.Close()

	snap, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.DocumentCount)
	for _, name := range []string{"stats.json", "wordcloud.png", "stats.html", "history.db"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoErrorf(t, err, "missing %s", name)
	}
}

func TestRelativeLink(t *testing.T) {
	assert.Equal(t, "images/wordcloud.png", relativeLink("/site/stats.html", "/site/images/wordcloud.png"))
	assert.Equal(t, "../img/cloud.png", relativeLink("/site/pages/stats.html", "/site/img/cloud.png"))
}

// panickyAnnotator fails on any document mentioning "boom".
type panickyAnnotator struct{}

func (panickyAnnotator) Annotate(ctx context.Context, text string) (*nlp.AnnotatedDoc, error) {
	if strings.Contains(text, "boom") {
		panic("annotator crashed")
	}
	return nlp.NewBasicAnnotator().Annotate(ctx, text)
}

func (panickyAnnotator) Close() error { return nil }
