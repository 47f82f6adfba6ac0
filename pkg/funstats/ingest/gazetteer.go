package ingest

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Gazetteer recognizes configured entities by keyword. Each entity has a
// category label (ORG, PRODUCT, ...) and a canonical name.
type Gazetteer struct {
	entities map[string]map[string][]string // label → name → keywords (lowercase)
}

// Entity represents a recognized entity mention
type Entity struct {
	Label string
	Text  string
}

// NewGazetteer creates an empty gazetteer
func NewGazetteer() *Gazetteer {
	return &Gazetteer{
		entities: make(map[string]map[string][]string),
	}
}

// AddEntity adds an entity with its label, canonical name and keywords.
// The canonical name always matches itself.
func (g *Gazetteer) AddEntity(label, name string, keywords []string) {
	if g.entities[label] == nil {
		g.entities[label] = make(map[string][]string)
	}
	normalized := []string{strings.ToLower(name)}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}
	g.entities[label][name] = normalized
}

// Len reports the number of configured entities.
func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, names := range g.entities {
		n += len(names)
	}
	return n
}

// ExtractEntities returns one Entity per keyword occurrence in text, matched
// case-insensitively on word boundaries. Output is ordered by label, then name.
func (g *Gazetteer) ExtractEntities(text string) []Entity {
	if g == nil || len(g.entities) == 0 {
		return nil
	}
	lowerText := strings.ToLower(text)

	labels := make([]string, 0, len(g.entities))
	for label := range g.entities {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var entities []Entity
	for _, label := range labels {
		names := make([]string, 0, len(g.entities[label]))
		for name := range g.entities[label] {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			n := 0
			seen := make(map[string]struct{})
			for _, kw := range g.entities[label][name] {
				if _, dup := seen[kw]; dup {
					continue
				}
				seen[kw] = struct{}{}
				n += countWordOccurrences(lowerText, kw)
			}
			for i := 0; i < n; i++ {
				entities = append(entities, Entity{Label: label, Text: name})
			}
		}
	}

	return entities
}

// countWordOccurrences counts non-overlapping occurrences of needle in
// haystack that start and end on a word boundary.
func countWordOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	count := 0
	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return count
		}
		start := offset + idx
		end := start + len(needle)
		if isBoundaryBefore(haystack, start) && isBoundaryAfter(haystack, end) {
			count++
			offset = end
		} else {
			_, size := utf8.DecodeRuneInString(haystack[start:])
			offset = start + size
		}
		if offset >= len(haystack) {
			return count
		}
	}
}

func isBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func isBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
