package nlp

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var basicToken = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*|[^\s\p{L}\p{N}]`)

// closed-class words tagged without the suffix heuristics
var basicLexicon = func() map[string]string {
	groups := [][2]string{
		{"DT", "a an the this that these those"},
		{"CC", "and or but nor"},
		{"IN", "in on at of for with from by about into over under after before between through during if because"},
		{"TO", "to"},
		{"PRP", "i you he she it we they me him her us them"},
		{"PRP$", "my your his its our their"},
		{"VBZ", "is has does"},
		{"VBP", "are am have do"},
		{"VBD", "was were had did"},
		{"VB", "be"},
		{"VBN", "been"},
		{"MD", "can could will would should may must"},
		{"RB", "not very too also never always"},
		{"WP", "who what"},
		{"WDT", "which"},
		{"WRB", "when where why how"},
	}
	lexicon := make(map[string]string)
	for _, g := range groups {
		for _, word := range strings.Fields(g[1]) {
			lexicon[word] = g[0]
		}
	}
	return lexicon
}()

var adjectiveSuffixes = []string{"ous", "ful", "ive", "able", "ible", "less", "ical", "ish"}

// BasicAnnotator is a rule-based annotator with no model. A run of '.', '!'
// or '?' ends a sentence; tags come from a closed-class lexicon and suffix
// rules; runs of proper nouns become MISC entities.
type BasicAnnotator struct{}

// NewBasicAnnotator creates a rule-based annotator
func NewBasicAnnotator() *BasicAnnotator {
	return &BasicAnnotator{}
}

// Annotate implements Annotator.
func (b *BasicAnnotator) Annotate(ctx context.Context, text string) (*AnnotatedDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &AnnotatedDoc{Text: text}
	spans := basicToken.FindAllStringIndex(text, -1)
	doc.Tokens = make([]Token, 0, len(spans))

	sentenceStart := true
	closed := false
	var current *Sentence
	for _, span := range spans {
		word := text[span[0]:span[1]]
		tok := Token{Text: word, Start: span[0], Tag: basicTag(word, sentenceStart)}
		doc.Tokens = append(doc.Tokens, tok)

		// a run of terminals such as "..." or "?!" stays with the sentence it closes
		if current == nil && closed && isTerminal(word) {
			last := &doc.Sentences[len(doc.Sentences)-1]
			last.TokenCount++
			last.Text = text[last.Start:span[1]]
			continue
		}

		if current == nil {
			doc.Sentences = append(doc.Sentences, Sentence{Start: span[0]})
			current = &doc.Sentences[len(doc.Sentences)-1]
		}
		current.TokenCount++
		if IsWord(word) {
			current.WordCount++
		}
		current.Text = text[current.Start:span[1]]

		sentenceStart = false
		closed = false
		if isTerminal(word) {
			current = nil
			sentenceStart = true
			closed = true
		}
	}

	doc.Entities = properNounRuns(doc.Tokens)
	return doc, nil
}

// Close implements Annotator.
func (b *BasicAnnotator) Close() error { return nil }

func isTerminal(word string) bool {
	return word == "." || word == "!" || word == "?"
}

func basicTag(word string, sentenceStart bool) string {
	r, _ := utf8.DecodeRuneInString(word)
	switch {
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		if isTerminal(word) {
			return "."
		}
		return ","
	case unicode.IsNumber(r):
		return "CD"
	}

	lower := strings.ToLower(word)
	if tag, ok := basicLexicon[lower]; ok {
		return tag
	}
	if unicode.IsUpper(r) && !sentenceStart {
		return "NNP"
	}
	switch {
	case strings.HasSuffix(lower, "ly") && len(lower) > 4:
		return "RB"
	case strings.HasSuffix(lower, "ing") && len(lower) > 4:
		return "VBG"
	case strings.HasSuffix(lower, "ed") && len(lower) > 3:
		return "VBD"
	}
	for _, suffix := range adjectiveSuffixes {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix)+2 {
			return "JJ"
		}
	}
	if strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 3 {
		return "NNS"
	}
	return "NN"
}

func properNounRuns(tokens []Token) []Entity {
	var entities []Entity
	var run []string
	flush := func() {
		if len(run) > 0 {
			entities = append(entities, Entity{Text: strings.Join(run, " "), Label: "MISC"})
			run = run[:0]
		}
	}
	for _, tok := range tokens {
		if tok.Tag == "NNP" {
			run = append(run, tok.Text)
			continue
		}
		flush()
	}
	flush()
	return entities
}
