// Package nlp turns plain text into an annotated document: tokens with
// part-of-speech tags, sentence spans and named entities. A document is
// parsed once and its AnnotatedDoc shared by the token, sentence and
// readability analyses.
package nlp

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
)

// Token is a word or punctuation symbol.
type Token struct {
	Text  string
	Tag   string // Penn Treebank tag
	Start int    // byte offset in the source text, -1 when unknown
}

// Sentence is a segmented span of the source text.
type Sentence struct {
	Text       string
	Start      int
	TokenCount int // all tokens, punctuation included
	WordCount  int // tokens holding a letter or digit
}

// Entity is a named-entity mention with its category label.
type Entity struct {
	Text  string
	Label string
}

// AnnotatedDoc is the result of one parse.
type AnnotatedDoc struct {
	Text      string
	Tokens    []Token
	Sentences []Sentence
	Entities  []Entity
}

// Annotator parses text. Implementations are long-lived services that may
// hold a loaded model; callers own them and release them with Close.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*AnnotatedDoc, error)
	Close() error
}

// Annotator names accepted by New.
const (
	AnnotatorProse = "prose"
	AnnotatorBasic = "basic"
)

// New returns the annotator registered under name. An empty name selects
// prose.
func New(name string, extractEntities bool) (Annotator, error) {
	switch strings.ToLower(name) {
	case "", AnnotatorProse:
		return NewProseAnnotator(extractEntities), nil
	case AnnotatorBasic:
		return NewBasicAnnotator(), nil
	}
	return nil, fmt.Errorf("annotator %q: %w", name, internalerr.ErrInvalidConfig)
}

// Part-of-speech categories reported by the analyzer.
const (
	Noun       = "NOUN"
	ProperNoun = "PROPN"
	Verb       = "VERB"
	Adjective  = "ADJ"
	Adverb     = "ADV"
)

// Categories lists the part-of-speech categories in report order.
var Categories = []string{Noun, ProperNoun, Verb, Adjective, Adverb}

// Category maps a Penn Treebank tag to a coarse part-of-speech category.
// Tags outside the reported categories map to "".
func Category(tag string) string {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return ProperNoun
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "VB"):
		return Verb
	case strings.HasPrefix(tag, "JJ"):
		return Adjective
	case tag == "RB" || tag == "RBR" || tag == "RBS":
		return Adverb
	}
	return ""
}

// locateTokens fills in token offsets by scanning text left to right.
func locateTokens(text string, tokens []Token) {
	cursor := 0
	for i := range tokens {
		idx := strings.Index(text[cursor:], tokens[i].Text)
		if tokens[i].Text == "" || idx < 0 {
			tokens[i].Start = -1
			continue
		}
		tokens[i].Start = cursor + idx
		cursor = tokens[i].Start + len(tokens[i].Text)
	}
}

// countSentenceTokens locates each sentence in text and counts the tokens
// whose offsets fall inside it. Tokens with unknown offsets are credited to
// the sentence in progress.
func countSentenceTokens(text string, sentences []Sentence, tokens []Token) {
	if len(sentences) == 0 {
		return
	}
	cursor := 0
	for i := range sentences {
		s := strings.TrimSpace(sentences[i].Text)
		idx := strings.Index(text[cursor:], s)
		if s == "" || idx < 0 {
			sentences[i].Start = cursor
			continue
		}
		sentences[i].Start = cursor + idx
		cursor = sentences[i].Start + len(s)
	}

	current := 0
	for _, tok := range tokens {
		if tok.Start >= 0 {
			for current+1 < len(sentences) && tok.Start >= sentences[current+1].Start {
				current++
			}
		}
		sentences[current].TokenCount++
		if IsWord(tok.Text) {
			sentences[current].WordCount++
		}
	}
}

// IsWord reports whether a token holds at least one letter or digit.
func IsWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
