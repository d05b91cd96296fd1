// Package generator synthesizes keystroke sessions from a vocabulary.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/model"
)

// DefaultWPM paces synthesized keystrokes when no speed is given.
const DefaultWPM = 40

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator with a fixed seed.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Words selects count words uniformly and applies caps/punctuation rules.
func (g *Generator) Words(vocab []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	if len(vocab) == 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := vocab[g.rnd.Intn(len(vocab))]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		result = append(result, word)
	}
	return result
}

// WeightedWords selects words with a bias toward the words in favored. A
// favored word is factor+1 times as likely as any other.
func (g *Generator) WeightedWords(vocab []string, count int, capsPct, punctPct float64, punctSet []rune, favored map[string]struct{}, factor float64) []string {
	if len(vocab) == 0 {
		return nil
	}
	weights := make([]float64, len(vocab))
	total := 0.0
	for i, word := range vocab {
		w := 1.0
		if _, ok := favored[word]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(vocab) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		word := vocab[idx]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		result = append(result, word)
	}
	return result
}

// Messages groups words into space-joined messages of at most perMessage words.
func Messages(words []string, perMessage int) []string {
	if perMessage <= 0 {
		perMessage = len(words)
	}
	var out []string
	for start := 0; start < len(words); start += perMessage {
		end := min(start+perMessage, len(words))
		out = append(out, strings.Join(words[start:end], " "))
	}
	return out
}

// Keystrokes types each message followed by Enter, one key every
// minute/(wpm*5) starting at start.
func Keystrokes(messages []string, start time.Time, wpm int) []model.KeystrokeEvent {
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	step := time.Minute / time.Duration(wpm*5)
	var events []model.KeystrokeEvent
	at := start
	push := func(key string) {
		events = append(events, model.KeystrokeEvent{PressedAt: at, Key: key})
		at = at.Add(step)
	}
	for _, msg := range messages {
		for _, r := range msg {
			push(string(r))
		}
		push(keylog.KeyEnter)
	}
	return events
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
