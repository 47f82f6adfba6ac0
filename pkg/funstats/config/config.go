package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/funstats/internal/logging"
	"github.com/cognicore/funstats/pkg/funstats/analytics"
	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/internalerr"
	"github.com/cognicore/funstats/pkg/funstats/keywords"
	"github.com/cognicore/funstats/pkg/funstats/nlp"
	"github.com/cognicore/funstats/pkg/funstats/sentiment"
	"github.com/cognicore/funstats/pkg/funstats/snapshot"
	"github.com/cognicore/funstats/pkg/funstats/wordcloud"
)

// DefaultExclude lists the site pages that are not articles.
var DefaultExclude = []string{"index.html", "about.html", "contact.html", "articles.html", "stats.html"}

// Config is the funstats configuration file.
type Config struct {
	ArticlesDir string   `yaml:"articles_dir"`
	Extension   string   `yaml:"extension"`
	Exclude     []string `yaml:"exclude"`

	Stoplist  string   `yaml:"stoplist"`  // YAML file replacing the built-in list
	Stopwords []string `yaml:"stopwords"` // inline extra terms
	Taxonomy  string   `yaml:"taxonomy"`

	Annotator string `yaml:"annotator"`
	Entities  bool   `yaml:"entities"`
	Sentiment string `yaml:"sentiment"`
	Keywords  string `yaml:"keywords"`

	TopWords    int `yaml:"top_words"`
	TopPOS      int `yaml:"top_pos"`
	TopEntities int `yaml:"top_entities"`
	TopKeywords int `yaml:"top_keywords"`

	Workers         int           `yaml:"workers"`
	DocumentTimeout time.Duration `yaml:"document_timeout"`

	Output    Output         `yaml:"output"`
	WordCloud WordCloud      `yaml:"wordcloud"`
	History   History        `yaml:"history"`
	Log       logging.Config `yaml:"log"`
}

// Output names the files written by a run. An empty path disables that output
// except for the snapshot, which is always written.
type Output struct {
	Snapshot  string `yaml:"snapshot"`
	WordCloud string `yaml:"wordcloud"`
	Report    string `yaml:"report"`
}

// WordCloud sizes the word-cloud image.
type WordCloud struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	MaxWords int `yaml:"max_words"`
}

// History enables the run ledger when Path is set.
type History struct {
	Path string `yaml:"path"`
}

// Default reproduces the site's stats page: articles/*.html minus the site pages.
func Default() *Config {
	limits := snapshot.DefaultLimits()
	return &Config{
		ArticlesDir:     "articles",
		Extension:       ingest.DefaultExtension,
		Exclude:         append([]string(nil), DefaultExclude...),
		Annotator:       nlp.AnnotatorProse,
		Entities:        true,
		Sentiment:       sentiment.StrategyLexicon,
		Keywords:        keywords.StrategyRAKE,
		TopWords:        limits.TopWords,
		TopPOS:          limits.TopPOS,
		TopEntities:     limits.TopEntities,
		TopKeywords:     analytics.DefaultTopKeywords,
		DocumentTimeout: analytics.DefaultDocumentTimeout,
		Output: Output{
			Snapshot:  "stats.json",
			WordCloud: "images/wordcloud.png",
			Report:    "stats.html",
		},
		WordCloud: WordCloud{
			Width:    wordcloud.DefaultWidth,
			Height:   wordcloud.DefaultHeight,
			MaxWords: wordcloud.DefaultMaxWords,
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads a YAML config file over the defaults. Unknown keys are rejected.
// Relative paths in the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	cfg.resolve(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{
		&c.ArticlesDir,
		&c.Stoplist,
		&c.Taxonomy,
		&c.Output.Snapshot,
		&c.Output.WordCloud,
		&c.Output.Report,
		&c.History.Path,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks the configuration for values no run can use.
func (c *Config) Validate() error {
	var problems []string
	if c.ArticlesDir == "" {
		problems = append(problems, "articles_dir is empty")
	}
	if !strings.HasPrefix(c.Extension, ".") {
		problems = append(problems, fmt.Sprintf("extension %q must start with a dot", c.Extension))
	}
	if c.Output.Snapshot == "" {
		problems = append(problems, "output.snapshot is empty")
	}
	for name, v := range map[string]int{
		"top_words":           c.TopWords,
		"top_pos":             c.TopPOS,
		"top_entities":        c.TopEntities,
		"top_keywords":        c.TopKeywords,
		"workers":             c.Workers,
		"wordcloud.width":     c.WordCloud.Width,
		"wordcloud.height":    c.WordCloud.Height,
		"wordcloud.max_words": c.WordCloud.MaxWords,
	} {
		if v < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", name))
		}
	}
	if c.DocumentTimeout < 0 {
		problems = append(problems, "document_timeout must not be negative")
	}
	switch strings.ToLower(c.Annotator) {
	case "", nlp.AnnotatorProse, nlp.AnnotatorBasic:
	default:
		problems = append(problems, fmt.Sprintf("unknown annotator %q", c.Annotator))
	}
	switch strings.ToLower(c.Sentiment) {
	case "", sentiment.StrategyLexicon, sentiment.StrategyRatio:
	default:
		problems = append(problems, fmt.Sprintf("unknown sentiment strategy %q", c.Sentiment))
	}
	switch strings.ToLower(c.Keywords) {
	case "", keywords.StrategyRAKE, keywords.StrategyFrequency:
	default:
		problems = append(problems, fmt.Sprintf("unknown keyword strategy %q", c.Keywords))
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
}

// Limits returns the top-N limits of the snapshot.
func (c *Config) Limits() snapshot.Limits {
	return snapshot.Limits{TopWords: c.TopWords, TopPOS: c.TopPOS, TopEntities: c.TopEntities}
}

// Loader returns a component loader for this configuration.
func (c *Config) Loader() *Loader {
	return &Loader{
		StoplistPath:    c.Stoplist,
		Stopwords:       c.Stopwords,
		TaxonomyPath:    c.Taxonomy,
		Annotator:       c.Annotator,
		ExtractEntities: c.Entities,
		Sentiment:       c.Sentiment,
		Keywords:        c.Keywords,
	}
}

// Taxonomy represents the gazetteer file: label -> entity name -> keywords.
type Taxonomy struct {
	Entities map[string]map[string][]string `yaml:"entities"`
}

// LoadTaxonomy loads taxonomy from a YAML file
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, err
	}

	return &tax, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
