package sentiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typestyle/internal/model"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty text yields one empty token", input: "", expected: []string{""}},
		{name: "lowercases and strips punctuation", input: "Hello, World!", expected: []string{"hello", "world"}},
		{name: "newlines become spaces", input: "one\ntwo", expected: []string{"one", "two"}},
		{name: "keeps apostrophes", input: "don't stop", expected: []string{"don't", "stop"}},
		{name: "collapses whitespace runs", input: "a   b", expected: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestLexiconScore(t *testing.T) {
	lex := NewLexicon(map[string]float64{"good": 3, "bad": -3, "love": 3})

	tests := []struct {
		name        string
		input       string
		score       float64
		comparative float64
		positive    []string
		negative    []string
	}{
		{name: "empty text", input: "", positive: []string{}, negative: []string{}},
		{name: "positive", input: "good love", score: 6, comparative: 3, positive: []string{"good", "love"}, negative: []string{}},
		{name: "negative", input: "so bad", score: -3, comparative: -1.5, positive: []string{}, negative: []string{"bad"}},
		{name: "negation flips weight", input: "not good", score: -3, comparative: -1.5, positive: []string{}, negative: []string{"good"}},
		{name: "unknown words dilute", input: "good a b c", score: 3, comparative: 0.75, positive: []string{"good"}, negative: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lex.Score(tt.input)
			assert.Equal(t, tt.score, got.Score)
			assert.InDelta(t, tt.comparative, got.Comparative, 1e-9)
			assert.Equal(t, tt.positive, got.Positive)
			assert.Equal(t, tt.negative, got.Negative)
		})
	}
}

func TestDefaultLexicon(t *testing.T) {
	lex := Default()
	assert.Greater(t, lex.Len(), 100)

	happy := lex.Score("I love this, it is awesome")
	assert.Greater(t, happy.Comparative, 0.0)

	grim := lex.Score("this is terrible and pointless")
	assert.Less(t, grim.Comparative, 0.0)
}

func TestFuncScorer(t *testing.T) {
	var s Scorer = Func(func(string) model.Sentiment {
		return model.Sentiment{Comparative: 0.5}
	})
	assert.Equal(t, 0.5, s.Score("anything").Comparative)
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.txt")
	content := "# custom\nyeet\t2\n\ncringe -3\nno way\t-1.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	assert.Equal(t, 3, lex.Len())
	assert.Equal(t, 2.0, lex.Score("yeet").Score)
	assert.Equal(t, -3.0, lex.Score("cringe").Score)
}

func TestLoadLexiconRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("word\tnotanumber\n"), 0o644))

	_, err := LoadLexicon(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestMergeOverridesWeights(t *testing.T) {
	base := NewLexicon(map[string]float64{"fine": 2, "meh": -1})
	merged := base.Merge(NewLexicon(map[string]float64{"fine": -2}))
	assert.Equal(t, -2.0, merged.Score("fine").Score)
	assert.Equal(t, -1.0, merged.Score("meh").Score)
	assert.Equal(t, 2.0, base.Score("fine").Score)
}

func TestLexiconWordsBySign(t *testing.T) {
	lex := NewLexicon(map[string]float64{"good": 3, "bad": -3, "zero": 0, "no way": -1, "nice": 2})
	assert.Equal(t, []string{"good", "nice"}, lex.Words(1))
	assert.Equal(t, []string{"bad"}, lex.Words(-1))
	assert.Empty(t, lex.Words(0))
}
