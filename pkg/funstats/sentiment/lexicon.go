package sentiment

import "math"

// Entry is the polarity and subjectivity of one lexicon word.
type Entry struct {
	Polarity     float64
	Subjectivity float64
}

// Lexicon maps lowercase words to their sentiment entry.
type Lexicon map[string]Entry

// DefaultLexicon returns a small English opinion lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		"good": {0.7, 0.6}, "great": {0.8, 0.75}, "excellent": {1.0, 1.0}, "amazing": {0.6, 0.9},
		"awesome": {1.0, 1.0}, "wonderful": {1.0, 1.0}, "fantastic": {0.4, 0.9}, "nice": {0.6, 1.0},
		"happy": {0.8, 1.0}, "love": {0.5, 0.6}, "loved": {0.7, 0.8}, "like": {0.2, 0.4},
		"best": {1.0, 0.3}, "better": {0.5, 0.5}, "beautiful": {0.85, 1.0}, "fun": {0.3, 0.2},
		"interesting": {0.5, 0.5}, "enjoy": {0.4, 0.5}, "enjoyed": {0.4, 0.5}, "helpful": {0.5, 0.6},
		"easy": {0.43, 0.83}, "clear": {0.1, 0.38}, "useful": {0.3, 0.0}, "perfect": {1.0, 1.0},
		"brilliant": {0.9, 1.0}, "glad": {0.5, 1.0}, "fresh": {0.3, 0.5}, "exciting": {0.3, 0.8},
		"success": {0.3, 0.3}, "successful": {0.75, 0.95}, "impressive": {1.0, 1.0}, "favorite": {0.5, 1.0},
		"bad": {-0.7, 0.67}, "terrible": {-1.0, 1.0}, "awful": {-1.0, 1.0}, "horrible": {-1.0, 1.0},
		"worst": {-1.0, 1.0}, "worse": {-0.4, 0.6}, "poor": {-0.4, 0.6}, "sad": {-0.5, 1.0},
		"hate": {-0.8, 0.9}, "hated": {-0.9, 0.7}, "boring": {-1.0, 1.0}, "ugly": {-0.7, 1.0},
		"wrong": {-0.5, 0.9}, "difficult": {-0.5, 1.0}, "hard": {-0.29, 0.54}, "annoying": {-0.8, 0.9},
		"angry": {-0.5, 1.0}, "broken": {-0.4, 0.4}, "disappointing": {-0.6, 0.7}, "fail": {-0.5, 0.3},
		"failed": {-0.5, 0.3}, "failure": {-0.32, 0.3}, "problem": {-0.2, 0.3}, "slow": {-0.3, 0.39},
		"stupid": {-0.8, 1.0}, "weird": {-0.5, 1.0}, "confusing": {-0.3, 0.7}, "painful": {-0.7, 0.9},
		"important": {0.4, 1.0}, "new": {0.14, 0.45}, "old": {0.1, 0.2}, "simple": {0.0, 0.36},
		"strange": {0.0, 0.15}, "real": {0.2, 0.3}, "true": {0.35, 0.65}, "false": {-0.4, 0.6},
	}
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {}, "without": {},
	"isn't": {}, "wasn't": {}, "aren't": {}, "weren't": {}, "don't": {}, "doesn't": {},
	"didn't": {}, "can't": {}, "couldn't": {}, "won't": {}, "wouldn't": {}, "shouldn't": {},
}

var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "so": 1.2, "super": 1.4,
	"incredibly": 1.5, "quite": 1.1, "pretty": 1.1, "totally": 1.3, "absolutely": 1.5,
	"slightly": 0.5, "somewhat": 0.7, "barely": 0.4,
}

// LexiconScorer averages the polarity and subjectivity of every opinion word,
// applying preceding intensifiers and negations.
type LexiconScorer struct {
	lexicon Lexicon
}

// NewLexiconScorer creates a lexicon-averaging scorer
func NewLexiconScorer(lex Lexicon) *LexiconScorer {
	return &LexiconScorer{lexicon: lex}
}

// Name implements Scorer.
func (s *LexiconScorer) Name() string { return StrategyLexicon }

// Score implements Scorer.
func (s *LexiconScorer) Score(text string) Score {
	ws := words(text)
	var polarity, subjectivity float64
	matched := 0

	for i, w := range ws {
		entry, ok := s.lexicon[w]
		if !ok {
			continue
		}
		p, subj := entry.Polarity, entry.Subjectivity

		// look back over at most two modifiers: "not very good"
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if factor, ok := intensifiers[ws[j]]; ok {
				p *= factor
				subj *= factor
				continue
			}
			if _, ok := negations[ws[j]]; ok {
				p *= -0.5
			}
			break
		}

		polarity += clamp(p, -1, 1)
		subjectivity += clamp(subj, 0, 1)
		matched++
	}

	if matched == 0 {
		return Score{}
	}
	return Score{
		Polarity:     round4(clamp(polarity/float64(matched), -1, 1)),
		Subjectivity: round4(clamp(subjectivity/float64(matched), 0, 1)),
	}
}

// RatioScorer scores by the balance of positive and negative words.
// Polarity is (pos-neg)/(pos+neg); subjectivity is the share of opinion
// words among all words.
type RatioScorer struct {
	lexicon Lexicon
}

// NewRatioScorer creates a word-balance scorer
func NewRatioScorer(lex Lexicon) *RatioScorer {
	return &RatioScorer{lexicon: lex}
}

// Name implements Scorer.
func (s *RatioScorer) Name() string { return StrategyRatio }

// Score implements Scorer.
func (s *RatioScorer) Score(text string) Score {
	ws := words(text)
	if len(ws) == 0 {
		return Score{}
	}
	var pos, neg int
	for i, w := range ws {
		entry, ok := s.lexicon[w]
		if !ok || entry.Polarity == 0 {
			continue
		}
		positive := entry.Polarity > 0
		if i > 0 {
			if _, ok := negations[ws[i-1]]; ok {
				positive = !positive
			}
		}
		if positive {
			pos++
		} else {
			neg++
		}
	}
	if pos+neg == 0 {
		return Score{}
	}
	return Score{
		Polarity:     round4(float64(pos-neg) / float64(pos+neg)),
		Subjectivity: round4(clamp(float64(pos+neg)/float64(len(ws)), 0, 1)),
	}
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
