// Package metrics extracts typing-habit statistics from a keystroke log.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/model"
)

// NoKey is the favorite-key sentinel for an empty log.
const NoKey = "None"

// Segment splits log lines into keys, messages ("Enter"-delimited) and
// sentences ("."-delimited). Malformed lines are skipped and trailing
// in-progress buffers are flushed.
func Segment(lines []string) model.Segments {
	var seg model.Segments
	var message, sentence strings.Builder
	seg.Keys = keylog.Keys(keylog.Parse(lines))
	for _, key := range seg.Keys {

		if key == keylog.KeyEnter {
			if message.Len() > 0 {
				seg.Messages = append(seg.Messages, strings.TrimSpace(message.String()))
				message.Reset()
			}
		} else {
			message.WriteString(key)
		}

		if key == keylog.KeyPeriod {
			if sentence.Len() > 0 {
				seg.Sentences = append(seg.Sentences, strings.TrimSpace(sentence.String()))
				sentence.Reset()
			}
		} else {
			sentence.WriteString(key)
		}
	}
	if message.Len() > 0 {
		seg.Messages = append(seg.Messages, strings.TrimSpace(message.String()))
	}
	if sentence.Len() > 0 {
		seg.Sentences = append(seg.Sentences, strings.TrimSpace(sentence.String()))
	}
	return seg
}

// Analyze computes the metrics report for segmented keystrokes.
func Analyze(seg model.Segments) model.MetricsReport {
	counts := CountKeys(seg.Keys)
	report := model.MetricsReport{
		TotalKeys:     len(seg.Keys),
		FavoriteKey:   Favorite(counts),
		MessageCount:  len(seg.Messages),
		SentenceCount: len(seg.Sentences),
		KeyCounts:     counts,
	}
	report.AvgMessageLength = averageLength(seg.Messages)
	report.AvgSentenceLength = averageLength(seg.Sentences)
	for _, msg := range seg.Messages {
		report.TotalWords += wordCount(msg)
	}
	if len(seg.Messages) > 0 {
		report.AvgWordsPerMessage = float64(report.TotalWords) / float64(len(seg.Messages))
	}
	for _, kc := range counts {
		switch kc.Key {
		case keylog.KeyCapsLock:
			report.CapsLockUsage = kc.Count
		case keylog.KeySpace:
			report.SpaceUsage = kc.Count
		}
	}
	return report
}

// Compute segments and analyzes log lines in one pass.
func Compute(lines []string) model.MetricsReport {
	return Analyze(Segment(lines))
}

// CountKeys tallies keys in order of first appearance.
func CountKeys(keys []string) []model.KeyCount {
	index := make(map[string]int, len(keys))
	counts := make([]model.KeyCount, 0)
	for _, key := range keys {
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, model.KeyCount{Key: key, Count: 1})
	}
	return counts
}

// Favorite returns the most frequent key. Ties go to the key that appeared
// first in the log.
func Favorite(counts []model.KeyCount) model.KeyCount {
	best := model.KeyCount{Key: NoKey}
	for _, kc := range counts {
		if kc.Count > best.Count {
			best = kc
		}
	}
	return best
}

func averageLength(items []string) float64 {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, item := range items {
		total += utf8.RuneCountInString(item)
	}
	return float64(total) / float64(len(items))
}

// wordCount splits on whitespace runs; an empty message is one empty token.
func wordCount(msg string) int {
	if msg == "" {
		return 1
	}
	return len(strings.Fields(msg))
}
