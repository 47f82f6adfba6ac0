package config

import (
	"fmt"

	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/keywords"
	"github.com/cognicore/funstats/pkg/funstats/nlp"
	"github.com/cognicore/funstats/pkg/funstats/sentiment"
	"github.com/cognicore/funstats/pkg/funstats/stoplist"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	StoplistPath    string
	Stopwords       []string
	TaxonomyPath    string
	Annotator       string
	ExtractEntities bool
	Sentiment       string
	Keywords        string
}

// Components holds the text-analysis services built from configuration.
type Components struct {
	Stoplist  *stoplist.Manager
	Gazetteer *ingest.Gazetteer
	Annotator nlp.Annotator
	Sentiment sentiment.Scorer
	Keywords  keywords.Extractor
}

// Close releases the annotator.
func (c *Components) Close() error {
	if c == nil || c.Annotator == nil {
		return nil
	}
	return c.Annotator.Close()
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Load stoplist
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stoplist.NewManager(sl.Terms)
	} else {
		comp.Stoplist = stoplist.Default()
	}
	for _, term := range l.Stopwords {
		comp.Stoplist.Add(term)
	}

	// Load taxonomy
	comp.Gazetteer = ingest.NewGazetteer()
	if l.TaxonomyPath != "" {
		taxConfig, err := LoadTaxonomy(l.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		for label, entities := range taxConfig.Entities {
			for name, kws := range entities {
				comp.Gazetteer.AddEntity(label, name, kws)
			}
		}
	}

	sc, err := sentiment.New(l.Sentiment)
	if err != nil {
		return nil, err
	}
	comp.Sentiment = sc

	ex, err := keywords.New(l.Keywords, comp.Stoplist)
	if err != nil {
		return nil, err
	}
	comp.Keywords = ex

	ann, err := nlp.New(l.Annotator, l.ExtractEntities)
	if err != nil {
		return nil, err
	}
	comp.Annotator = nlp.WithGazetteer(ann, comp.Gazetteer)

	return comp, nil
}
