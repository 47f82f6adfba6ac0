// Package readability scores text with the Flesch reading-ease and
// Flesch-Kincaid grade-level formulas.
package readability

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/cognicore/funstats/pkg/funstats/nlp"
)

// Score holds the two readability formulas for one text.
type Score struct {
	ReadingEase float64 `json:"reading_ease"`
	GradeLevel  float64 `json:"grade_level"`
}

// Counts are the raw inputs of the formulas.
type Counts struct {
	Words     int
	Sentences int
	Syllables int
}

var sentenceEnders = regexp.MustCompile(`[.!?]+`)

// Analyze scores text. Case and punctuation are significant, so pass the
// original text rather than a normalized form. Text without words scores 0.
func Analyze(text string) Score {
	return FromCounts(Count(text))
}

// Count computes word, sentence and syllable counts.
func Count(text string) Counts {
	var c Counts
	for _, field := range strings.Fields(text) {
		word := cleanWord(field)
		if word == "" {
			continue
		}
		c.Words++
		c.Syllables += Syllables(word)
	}
	if c.Words == 0 {
		return c
	}

	for _, s := range sentenceEnders.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			c.Sentences++
		}
	}
	if c.Sentences == 0 {
		c.Sentences = 1
	}
	return c
}

// FromAnnotated scores an annotated document from its own tokens and
// sentence spans. Sentences without words are not counted.
func FromAnnotated(doc *nlp.AnnotatedDoc) Score {
	return FromCounts(CountAnnotated(doc))
}

// CountAnnotated computes the formula inputs from an annotated document.
func CountAnnotated(doc *nlp.AnnotatedDoc) Counts {
	var c Counts
	if doc == nil {
		return c
	}
	for _, tok := range doc.Tokens {
		word := cleanWord(tok.Text)
		if word == "" {
			continue
		}
		c.Words++
		c.Syllables += Syllables(word)
	}
	if c.Words == 0 {
		return c
	}
	for _, s := range doc.Sentences {
		if s.WordCount > 0 {
			c.Sentences++
		}
	}
	if c.Sentences == 0 {
		c.Sentences = 1
	}
	return c
}

// FromCounts applies both formulas, rounded to two decimals.
func FromCounts(c Counts) Score {
	if c.Words == 0 || c.Sentences == 0 {
		return Score{}
	}
	wps := float64(c.Words) / float64(c.Sentences)
	spw := float64(c.Syllables) / float64(c.Words)

	return Score{
		ReadingEase: round2(206.835 - 1.015*wps - 84.6*spw),
		GradeLevel:  round2(0.39*wps + 11.8*spw - 15.59),
	}
}

// Syllables estimates the syllable count of one word by counting vowel
// groups with silent-e and consonant-le adjustments. Every word has at
// least one syllable.
func Syllables(word string) int {
	word = strings.ToLower(word)
	if word == "" {
		return 0
	}

	groups := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			groups++
		}
		prevVowel = vowel
	}

	if strings.HasSuffix(word, "e") {
		groups--
	}
	if strings.HasSuffix(word, "le") && len(word) > 2 && !strings.ContainsRune("aeiouy", rune(word[len(word)-3])) {
		groups++
	}

	if groups <= 0 {
		groups = 1
	}
	return groups
}

func cleanWord(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
