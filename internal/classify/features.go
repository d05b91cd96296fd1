package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/metrics"
	"github.com/verte-zerg/typestyle/internal/model"
	"github.com/verte-zerg/typestyle/internal/sentiment"
)

// dragRun is the number of identical consecutive characters that makes text "dragged".
const dragRun = 4

var (
	wordCharRe = regexp.MustCompile(`\w`)
	wordRe     = regexp.MustCompile(`\b[a-z]{2,}\b`)
	doomRe     = regexp.MustCompile(`\b(nothing|pointless|why|end|die|empty)\b`)
	scriptedRe = regexp.MustCompile(`(?i)(Ctrl\+V|Meta|Paste|Enter|Tab)`)
)

// Extract computes the feature set for text given the current WPM and hour
// of day (0-23). It is a pure function of its inputs.
func Extract(text string, wpm, hour int, scorer sentiment.Scorer) model.FeatureSet {
	hour = normalizeHour(hour)
	fs := model.FeatureSet{
		WPM:        wpm,
		Hour:       hour,
		TextLength: utf8.RuneCountInString(text),
	}
	safeLength := float64(max(fs.TextLength, 1))

	messages := matchingFragments(strings.Split(text, "\n"), false)
	fs.MessageCount = len(messages)
	fs.AvgMessageLen = averageRunes(messages)
	sentences := matchingFragments(strings.Split(text, "."), true)
	fs.SentenceCount = len(sentences)
	fs.AvgSentenceLen = averageRunes(sentences)
	fs.EntriesPerHour = float64(fs.MessageCount) / float64(hour+1)

	lower := strings.ToLower(text)
	fs.Words = wordRe.FindAllString(lower, -1)
	fs.WordCount = len(fs.Words)
	fs.Diversity = diversity(fs.Words)
	fs.AvgWordLength = averageRunes(fs.Words)

	for _, r := range text {
		switch {
		case r == '!':
			fs.Exclamations++
		case r == '.':
			fs.Periods++
		case r >= 'A' && r <= 'Z':
			fs.Caps++
		case r >= 0x1F600 && r <= 0x1F64F:
			fs.Emojis++
		}
	}
	fs.ExclamRate = float64(fs.Exclamations) / (safeLength / 100)
	fs.PeriodRate = float64(fs.Periods) / (safeLength / 100)
	fs.Dragged = isDragged(text)

	if scorer != nil {
		fs.Sentiment = scorer.Score(text)
	}
	fs.Profanity = strings.Count(lower, "shit")
	fs.DoomWords = doomRe.MatchString(text)
	fs.ScriptedTokens = len(scriptedRe.FindAllStringIndex(text, -1))

	keys := metrics.Compute(keylog.SplitLines(text))
	fs.FavoriteKey = keys.FavoriteKey
	fs.CapsLockUsage = keys.CapsLockUsage
	fs.SpaceUsage = keys.SpaceUsage
	return fs
}

func normalizeHour(hour int) int {
	return ((hour % 24) + 24) % 24
}

// matchingFragments keeps fragments that contain a word character.
func matchingFragments(parts []string, trim bool) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if !wordCharRe.MatchString(part) {
			continue
		}
		if trim {
			part = strings.TrimSpace(part)
		}
		out = append(out, part)
	}
	return out
}

func averageRunes(items []string) float64 {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, item := range items {
		total += utf8.RuneCountInString(item)
	}
	return float64(total) / float64(len(items))
}

func diversity(words []string) float64 {
	if len(words) == 0 {
		return 1
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

// isDragged reports whether any character other than a line terminator
// repeats dragRun or more times in a row.
func isDragged(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if isLineTerminator(r) {
			run = 0
			continue
		}
		if run > 0 && r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= dragRun {
			return true
		}
	}
	return false
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}
