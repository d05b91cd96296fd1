// Package sentiment provides lexicon-based comparative sentiment scoring.
package sentiment

import (
	_ "embed"
	"regexp"
	"sort"
	"strings"

	"github.com/verte-zerg/typestyle/internal/model"
)

// Scorer scores the sentiment of a text.
type Scorer interface {
	Score(text string) model.Sentiment
}

// Func adapts a plain function to Scorer.
type Func func(text string) model.Sentiment

// Score implements Scorer.
func (f Func) Score(text string) model.Sentiment {
	return f(text)
}

//go:embed afinn.txt
var defaultLexicon string

var (
	punctRe      = regexp.MustCompile("[.,/#!?$%^&*;:{}=_`\"~()]")
	whitespaceRe = regexp.MustCompile(`\s\s+`)
)

var negators = map[string]struct{}{
	"aint": {}, "ain't": {}, "arent": {}, "aren't": {},
	"cannot": {}, "cant": {}, "can't": {},
	"couldnt": {}, "couldn't": {},
	"didnt": {}, "didn't": {}, "doesnt": {}, "doesn't": {}, "dont": {}, "don't": {},
	"hadnt": {}, "hadn't": {}, "hasnt": {}, "hasn't": {}, "havent": {}, "haven't": {},
	"isnt": {}, "isn't": {},
	"never": {}, "nor": {}, "not": {},
	"shouldnt": {}, "shouldn't": {},
	"wasnt": {}, "wasn't": {}, "werent": {}, "weren't": {},
	"wont": {}, "won't": {}, "wouldnt": {}, "wouldn't": {},
}

// Lexicon scores text against a word-weight table.
type Lexicon struct {
	weights map[string]float64
}

// Default returns a Lexicon backed by the embedded word list.
func Default() *Lexicon {
	lex, err := parseLexicon(strings.NewReader(defaultLexicon))
	if err != nil {
		panic("sentiment: embedded lexicon is invalid: " + err.Error())
	}
	return lex
}

// NewLexicon builds a Lexicon from a word-weight map. Words are lowercased.
func NewLexicon(weights map[string]float64) *Lexicon {
	lex := &Lexicon{weights: make(map[string]float64, len(weights))}
	for word, w := range weights {
		lex.weights[strings.ToLower(word)] = w
	}
	return lex
}

// Len returns the number of words in the lexicon.
func (l *Lexicon) Len() int {
	return len(l.weights)
}

// Words returns the single-token words whose weight has the sign of sign
// (positive when sign > 0, negative when sign < 0), sorted.
func (l *Lexicon) Words(sign int) []string {
	var out []string
	for word, w := range l.weights {
		if strings.Contains(word, " ") {
			continue
		}
		if (sign > 0 && w > 0) || (sign < 0 && w < 0) {
			out = append(out, word)
		}
	}
	sort.Strings(out)
	return out
}

// Merge returns a copy of l with other's weights layered on top.
func (l *Lexicon) Merge(other *Lexicon) *Lexicon {
	merged := &Lexicon{weights: make(map[string]float64, len(l.weights)+len(other.weights))}
	for word, w := range l.weights {
		merged.weights[word] = w
	}
	for word, w := range other.weights {
		merged.weights[word] = w
	}
	return merged
}

// Score implements Scorer. Comparative is the summed weight divided by the
// token count; a token following a negator has its weight inverted.
func (l *Lexicon) Score(text string) model.Sentiment {
	tokens := Tokenize(text)
	result := model.Sentiment{Positive: []string{}, Negative: []string{}}
	for i, token := range tokens {
		weight, ok := l.weights[token]
		if !ok {
			continue
		}
		if i > 0 {
			if _, negated := negators[tokens[i-1]]; negated {
				weight = -weight
			}
		}
		if weight > 0 {
			result.Positive = append(result.Positive, token)
		}
		if weight < 0 {
			result.Negative = append(result.Negative, token)
		}
		result.Score += weight
	}
	result.Comparative = result.Score / float64(len(tokens))
	return result
}

// Tokenize lowercases text, turns newlines and punctuation into spaces and
// splits on single spaces. Empty text yields a single empty token.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "\n", " ")
	text = punctRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return strings.Split(text, " ")
}
