package nlp

import (
	"context"

	"github.com/cognicore/funstats/pkg/funstats/ingest"
)

type gazetteerAnnotator struct {
	Annotator
	gazetteer *ingest.Gazetteer
}

// WithGazetteer wraps an annotator so that keyword matches from the
// gazetteer are appended to the recognized entities.
func WithGazetteer(a Annotator, g *ingest.Gazetteer) Annotator {
	if g == nil || g.Len() == 0 {
		return a
	}
	return &gazetteerAnnotator{Annotator: a, gazetteer: g}
}

func (g *gazetteerAnnotator) Annotate(ctx context.Context, text string) (*AnnotatedDoc, error) {
	doc, err := g.Annotator.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}
	for _, e := range g.gazetteer.ExtractEntities(text) {
		doc.Entities = append(doc.Entities, Entity{Text: e.Text, Label: e.Label})
	}
	return doc, nil
}
