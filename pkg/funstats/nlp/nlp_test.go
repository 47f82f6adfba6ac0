package nlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/funstats/pkg/funstats/ingest"
	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

func TestCategory(t *testing.T) {
	tests := map[string]string{
		"NN": Noun, "NNS": Noun, "NNP": ProperNoun, "NNPS": ProperNoun,
		"VB": Verb, "VBD": Verb, "VBG": Verb, "JJ": Adjective, "JJS": Adjective,
		"RB": Adverb, "RBR": Adverb, "RP": "", "DT": "", ".": "", "": "",
	}
	for tag, want := range tests {
		assert.Equalf(t, want, Category(tag), "tag %q", tag)
	}
}

func TestBasicAnnotatorSingleSentence(t *testing.T) {
	doc, err := NewBasicAnnotator().Annotate(context.Background(), "Cats chase small mice.")
	require.NoError(t, err)

	require.Len(t, doc.Tokens, 5)
	require.Len(t, doc.Sentences, 1)
	assert.Equal(t, 5, doc.Sentences[0].TokenCount)
	assert.Equal(t, "Cats chase small mice.", doc.Sentences[0].Text)
	assert.Equal(t, "NNS", doc.Tokens[0].Tag)
	assert.Equal(t, ".", doc.Tokens[4].Tag)
	assert.Equal(t, 17, doc.Tokens[3].Start)
}

func TestBasicAnnotatorSentencesAndEntities(t *testing.T) {
	doc, err := NewBasicAnnotator().Annotate(context.Background(), "Alice met Bob in New York. It rained!")
	require.NoError(t, err)

	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, 7, doc.Sentences[0].TokenCount)
	assert.Equal(t, 3, doc.Sentences[1].TokenCount)
	assert.Equal(t, "It rained!", doc.Sentences[1].Text)

	assert.Equal(t, []Entity{
		{Text: "Bob", Label: "MISC"},
		{Text: "New York", Label: "MISC"},
	}, doc.Entities)
}

func TestBasicAnnotatorTerminalRuns(t *testing.T) {
	doc, err := NewBasicAnnotator().Annotate(context.Background(), "Wait... what? I see.")
	require.NoError(t, err)

	require.Len(t, doc.Sentences, 3)
	assert.Equal(t, "Wait...", doc.Sentences[0].Text)
	assert.Equal(t, 4, doc.Sentences[0].TokenCount)
	assert.Equal(t, 1, doc.Sentences[0].WordCount)
	assert.Equal(t, 2, doc.Sentences[1].TokenCount)
	assert.Equal(t, 3, doc.Sentences[2].TokenCount)
	assert.Equal(t, 2, doc.Sentences[2].WordCount)
}

func TestBasicAnnotatorLeadingPunctuation(t *testing.T) {
	doc, err := NewBasicAnnotator().Annotate(context.Background(), "?! Yes.")
	require.NoError(t, err)

	require.Len(t, doc.Sentences, 2)
	assert.Zero(t, doc.Sentences[0].WordCount)
	assert.Equal(t, 1, doc.Sentences[1].WordCount)
}

func TestBasicAnnotatorTrailingSentenceWithoutTerminal(t *testing.T) {
	doc, err := NewBasicAnnotator().Annotate(context.Background(), "One. Two three")
	require.NoError(t, err)

	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, 2, doc.Sentences[0].TokenCount)
	assert.Equal(t, 2, doc.Sentences[1].TokenCount)
}

func TestBasicAnnotatorEmpty(t *testing.T) {
	doc, err := NewBasicAnnotator().Annotate(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, doc.Tokens)
	assert.Empty(t, doc.Sentences)
	assert.Empty(t, doc.Entities)
}

func TestBasicAnnotatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBasicAnnotator().Annotate(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBasicTagSuffixes(t *testing.T) {
	assert.Equal(t, "RB", basicTag("quickly", false))
	assert.Equal(t, "VBG", basicTag("running", false))
	assert.Equal(t, "VBD", basicTag("walked", false))
	assert.Equal(t, "JJ", basicTag("beautiful", false))
	assert.Equal(t, "NNS", basicTag("dogs", false))
	assert.Equal(t, "NN", basicTag("glass", false))
	assert.Equal(t, "CD", basicTag("42", false))
	assert.Equal(t, "NNP", basicTag("Rome", false))
	assert.Equal(t, "NN", basicTag("Rome", true))
	assert.Equal(t, "DT", basicTag("The", true))
}

func TestLocateTokens(t *testing.T) {
	tokens := []Token{{Text: "a"}, {Text: "missing"}, {Text: "b"}}
	locateTokens("a b", tokens)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, -1, tokens[1].Start)
	assert.Equal(t, 2, tokens[2].Start)
}

func TestCountSentenceTokens(t *testing.T) {
	text := "Hi there. How are you?"
	tokens := []Token{{Text: "Hi"}, {Text: "there"}, {Text: "."}, {Text: "How"}, {Text: "are"}, {Text: "you"}, {Text: "?"}}
	locateTokens(text, tokens)
	sentences := []Sentence{{Text: "Hi there."}, {Text: "How are you?"}}

	countSentenceTokens(text, sentences, tokens)

	assert.Equal(t, 3, sentences[0].TokenCount)
	assert.Equal(t, 2, sentences[0].WordCount)
	assert.Equal(t, 4, sentences[1].TokenCount)
	assert.Equal(t, 3, sentences[1].WordCount)
	assert.Equal(t, 10, sentences[1].Start)
}

func TestWithGazetteer(t *testing.T) {
	g := ingest.NewGazetteer()
	g.AddEntity("ORG", "Acme", nil)

	a := WithGazetteer(NewBasicAnnotator(), g)
	doc, err := a.Annotate(context.Background(), "we love acme")
	require.NoError(t, err)
	assert.Equal(t, []Entity{{Text: "Acme", Label: "ORG"}}, doc.Entities)
	assert.NoError(t, a.Close())
}

func TestWithEmptyGazetteerReturnsBase(t *testing.T) {
	base := NewBasicAnnotator()
	assert.Same(t, base, WithGazetteer(base, ingest.NewGazetteer()).(*BasicAnnotator))
}

func TestProseAnnotator(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the prose model")
	}
	doc, err := NewProseAnnotator(true).Annotate(context.Background(), "Go is a language. It compiles quickly!")
	require.NoError(t, err)

	assert.NotEmpty(t, doc.Tokens)
	require.Len(t, doc.Sentences, 2)
	total := 0
	for _, s := range doc.Sentences {
		total += s.TokenCount
	}
	assert.Equal(t, len(doc.Tokens), total)
}

func TestProseAnnotatorReusesModel(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the prose model")
	}
	a := NewProseAnnotator(false)
	require.NotNil(t, a.model)
	model := a.model

	for _, text := range []string{"Go is fun.", "Channels carry values."} {
		doc, err := a.Annotate(context.Background(), text)
		require.NoError(t, err)
		assert.NotEmpty(t, doc.Tokens)
		assert.Same(t, model, a.model)
	}

	require.NoError(t, a.Close())
	_, err := a.Annotate(context.Background(), "Go is fun.")
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestNewAnnotator(t *testing.T) {
	a, err := New("", true)
	require.NoError(t, err)
	assert.IsType(t, &ProseAnnotator{}, a)

	a, err = New("Basic", false)
	require.NoError(t, err)
	assert.IsType(t, &BasicAnnotator{}, a)

	_, err = New("spacy", true)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}
