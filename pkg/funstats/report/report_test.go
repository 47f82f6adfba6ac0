package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/funstats/pkg/funstats/analytics"
	"github.com/cognicore/funstats/pkg/funstats/readability"
	"github.com/cognicore/funstats/pkg/funstats/sentiment"
	"github.com/cognicore/funstats/pkg/funstats/snapshot"
)

func sample() *snapshot.Snapshot {
	s := snapshot.Build(analytics.NewCorpus(), snapshot.DefaultLimits(), time.Date(2024, 3, 1, 9, 5, 0, 0, time.FixedZone("CET", 3600)))
	s.DocumentCount = 2
	s.TotalWordCount = 12345
	s.AverageWordsPerDocument = 6172
	s.LongestDocument = "go-generics.html"
	s.TopWords = []snapshot.WordCount{{Word: "go", Count: 40}, {Word: "<script>", Count: 2}}
	s.Entities = []snapshot.EntityCount{{Label: "ORG", Count: 3}}
	s.Readability["go-generics.html"] = readability.Score{ReadingEase: 61.5, GradeLevel: 8.25}
	s.Sentences["go-generics.html"] = analytics.SentenceStats{Count: 7}
	s.LexicalDiversity["go-generics.html"] = 0.5
	s.Sentiment["go-generics.html"] = sentiment.Score{Polarity: 0.1}
	s.Keywords["go-generics.html"] = []string{"type parameters", "constraints"}
	return s
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample(), Options{WordCloud: "images/wordcloud.png"}))
	out := buf.String()

	assert.Contains(t, out, "<title>Fun Stats</title>")
	assert.Contains(t, out, `<link rel="stylesheet" href="style.css" />`)
	assert.Contains(t, out, `<script src="navbar.js" defer></script>`)
	assert.Contains(t, out, "Longest: go-generics</p>")
	assert.Contains(t, out, "Total: 12,345")
	assert.Contains(t, out, "Avg/article: 6,172")
	assert.Contains(t, out, "type parameters, constraints")
	assert.Contains(t, out, "<td>61.50</td>")
	assert.Contains(t, out, "2024-03-01 08:05 (UTC)")
	assert.Contains(t, out, `src="images/wordcloud.png"`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<li><script>")
}

func TestRenderEmptySnapshot(t *testing.T) {
	s := snapshot.Build(analytics.NewCorpus(), snapshot.DefaultLimits(), time.Unix(0, 0))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, Options{Title: "Stats"}))
	assert.Contains(t, buf.String(), "Longest: None")
	assert.NotContains(t, buf.String(), "Word Cloud")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.html")
	require.NoError(t, WriteFile(path, sample(), Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}
