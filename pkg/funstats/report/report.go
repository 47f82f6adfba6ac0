// Package report renders a snapshot as the site's standalone stats page.
package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cognicore/funstats/internal/atomicfile"
	"github.com/cognicore/funstats/pkg/funstats/snapshot"
)

// TimeLayout formats the "last updated" line.
const TimeLayout = "2006-01-02 15:04"

// Options controls the page chrome.
type Options struct {
	Title     string
	WordCloud string // image path relative to the page, omitted when empty
}

type page struct {
	Options
	*snapshot.Snapshot
}

var funcs = template.FuncMap{
	"comma":   func(n int) string { return humanize.Comma(int64(n)) },
	"article": func(name string) string { return strings.TrimSuffix(name, ".html") },
	"decimal": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"stamp":   func(t time.Time) string { return t.UTC().Format(TimeLayout) },
}

var pageTemplate = template.Must(template.New("stats").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="style.css" />
    <script src="navbar.js" defer></script>
</head>
<body>
    <h1>📊 {{.Title}}</h1>
    <div class="stats-grid">
        <div class="stat-card">
            <h2>📚 Articles</h2>
            <p>Total: {{comma .DocumentCount}}</p>
            <p>Longest: {{article .LongestDocument}}</p>
        </div>
        <div class="stat-card">
            <h2>📝 Words</h2>
            <p>Total: {{comma .TotalWordCount}}</p>
            <p>Avg/article: {{comma .AverageWordsPerDocument}}</p>
        </div>
        <div class="stat-card">
            <h2>🔠 Top Words</h2>
            <ol>
{{- range .TopWords}}
                <li>{{.Word}} ({{comma .Count}})</li>
{{- end}}
            </ol>
        </div>
        <div class="stat-card">
            <h2>🧩 Parts of Speech</h2>
{{- range $cat, $words := .TopPOS}}
            <h3>{{$cat}}</h3>
            <ul>
{{- range $words}}
                <li>{{.Word}} ({{comma .Count}})</li>
{{- end}}
            </ul>
{{- end}}
        </div>
        <div class="stat-card">
            <h2>🏷️ Entities</h2>
            <ul>
{{- range .Entities}}
                <li>{{.Label}}: {{comma .Count}}</li>
{{- end}}
            </ul>
        </div>
        <div class="stat-card">
            <h2>📖 Per Article</h2>
            <table>
                <tr><th>Article</th><th>Sentences</th><th>Reading ease</th><th>Grade</th><th>Diversity</th><th>Polarity</th><th>Keywords</th></tr>
{{- $s := .Snapshot}}
{{- range $name, $read := .Readability}}
                <tr>
                    <td>{{article $name}}</td>
                    <td>{{(index $s.Sentences $name).Count}}</td>
                    <td>{{decimal $read.ReadingEase}}</td>
                    <td>{{decimal $read.GradeLevel}}</td>
                    <td>{{decimal (index $s.LexicalDiversity $name)}}</td>
                    <td>{{decimal (index $s.Sentiment $name).Polarity}}</td>
                    <td>{{range $i, $k := index $s.Keywords $name}}{{if $i}}, {{end}}{{$k}}{{end}}</td>
                </tr>
{{- end}}
            </table>
        </div>
{{- if .WordCloud}}
        <div class="stat-card">
            <h2>☁️ Word Cloud</h2>
            <img src="{{.WordCloud}}" alt="Word cloud" />
        </div>
{{- end}}
        <div class="stat-card">
            <h2>⏰ Last Updated</h2>
            <p>{{stamp .GeneratedAt}} (UTC)</p>
        </div>
    </div>
</body>
</html>
`))

// Render writes the page for s to w.
func Render(w io.Writer, s *snapshot.Snapshot, opts Options) error {
	if opts.Title == "" {
		opts.Title = "Fun Stats"
	}
	if err := pageTemplate.Execute(w, page{Options: opts, Snapshot: s}); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteFile renders s and atomically replaces the page at path.
func WriteFile(path string, s *snapshot.Snapshot, opts Options) error {
	if err := atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return Render(w, s, opts)
	}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
