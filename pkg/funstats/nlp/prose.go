package nlp

import (
	"context"
	"fmt"
	"sync"

	"github.com/jdkato/prose/v2"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

// ProseAnnotator annotates text with the prose tokenizer, averaged
// perceptron tagger, sentence segmenter and entity extractor.
// The tagger and entity model are loaded once and shared by every call.
type ProseAnnotator struct {
	extract bool

	mu    sync.RWMutex
	model *prose.Model
}

// NewProseAnnotator creates a prose-backed annotator. Entity extraction can
// be disabled when only counts and tags are needed.
func NewProseAnnotator(extractEntities bool) *ProseAnnotator {
	return &ProseAnnotator{
		extract: extractEntities,
		model:   loadProseModel(extractEntities),
	}
}

// loadProseModel builds the default prose model by parsing an empty document.
func loadProseModel(extract bool) *prose.Model {
	pd, err := prose.NewDocument("",
		prose.WithSegmentation(false),
		prose.WithExtraction(extract))
	if err != nil {
		return nil
	}
	return pd.Model
}

// Annotate implements Annotator.
func (p *ProseAnnotator) Annotate(ctx context.Context, text string) (*AnnotatedDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model == nil {
		return nil, fmt.Errorf("%w: prose annotator is closed", internalerr.ErrInvalidInput)
	}

	pd, err := prose.NewDocument(text,
		prose.UsingModel(model),
		prose.WithExtraction(p.extract))
	if err != nil {
		return nil, fmt.Errorf("prose parse: %w", err)
	}

	doc := &AnnotatedDoc{Text: text}

	ptoks := pd.Tokens()
	doc.Tokens = make([]Token, len(ptoks))
	for i, t := range ptoks {
		doc.Tokens[i] = Token{Text: t.Text, Tag: t.Tag}
	}
	locateTokens(text, doc.Tokens)

	for _, s := range pd.Sentences() {
		doc.Sentences = append(doc.Sentences, Sentence{Text: s.Text})
	}
	countSentenceTokens(text, doc.Sentences, doc.Tokens)

	if p.extract {
		for _, e := range pd.Entities() {
			doc.Entities = append(doc.Entities, Entity{Text: e.Text, Label: e.Label})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Close implements Annotator. It drops the model; later calls to Annotate fail.
func (p *ProseAnnotator) Close() error {
	p.mu.Lock()
	p.model = nil
	p.mu.Unlock()
	return nil
}
