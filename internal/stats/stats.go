// Package stats contains typing statistics rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typestyle/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// KeysPerMinute buckets timestamped events into one-minute bins between the
// first and last event. Events without a timestamp are ignored.
func KeysPerMinute(events []model.KeystrokeEvent) []float64 {
	var first, last time.Time
	for _, e := range events {
		if e.PressedAt.IsZero() {
			continue
		}
		if first.IsZero() || e.PressedAt.Before(first) {
			first = e.PressedAt
		}
		if e.PressedAt.After(last) {
			last = e.PressedAt
		}
	}
	if first.IsZero() {
		return nil
	}
	bins := make([]float64, int(last.Sub(first)/time.Minute)+1)
	for _, e := range events {
		if e.PressedAt.IsZero() {
			continue
		}
		bins[int(e.PressedAt.Sub(first)/time.Minute)]++
	}
	return bins
}

// KeyLabel renders a key token for display.
func KeyLabel(key string) string {
	switch key {
	case " ":
		return "<space>"
	case "\t":
		return "<tab>"
	default:
		return key
	}
}

// RenderMetrics prints the typing habits report.
func RenderMetrics(w io.Writer, r model.MetricsReport) error {
	lines := []string{
		"Typing Habits Report",
		fmt.Sprintf("Total keys pressed: %d", r.TotalKeys),
		fmt.Sprintf("Favorite key: '%s' (pressed %d times)", KeyLabel(r.FavoriteKey.Key), r.FavoriteKey.Count),
		fmt.Sprintf("Average message length: %.2f characters", r.AvgMessageLength),
		fmt.Sprintf("Average sentence length: %.2f characters", r.AvgSentenceLength),
		fmt.Sprintf("Total words typed: %d", r.TotalWords),
		fmt.Sprintf("Average words per message: %.2f", r.AvgWordsPerMessage),
		fmt.Sprintf("CapsLock usage: %d", r.CapsLockUsage),
		fmt.Sprintf("Space key usage: %d", r.SpaceUsage),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderKeyTable prints the most frequent keys with their share of presses.
func RenderKeyTable(w io.Writer, r model.MetricsReport, n int) error {
	top := TopKeysByFrequency(r.KeyCounts, n)
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "No keystrokes recorded yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Top Keys"); err != nil {
		return err
	}
	headers := []string{"Key", "Presses", "Share"}
	rows := make([][]string, 0, len(top))
	for _, kc := range top {
		share := 0.0
		if r.TotalKeys > 0 {
			share = float64(kc.Count) / float64(r.TotalKeys)
		}
		rows = append(rows, []string{
			KeyLabel(kc.Key),
			fmt.Sprintf("%d", kc.Count),
			fmt.Sprintf("%.2f%%", share*100),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderActivity prints a keys-per-minute sparkline smoothed over window minutes.
func RenderActivity(w io.Writer, events []model.KeystrokeEvent, window int) error {
	perMinute := KeysPerMinute(events)
	if len(perMinute) == 0 {
		return nil
	}
	peak := 0.0
	for _, v := range perMinute {
		peak = math.Max(peak, v)
	}
	if _, err := fmt.Fprintf(w, "Activity (%d min, peak %.0f keys/min)\n", len(perMinute), peak); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n\n", Sparkline(MovingAverage(perMinute, window))); err != nil {
		return err
	}
	return nil
}

// RenderClassification prints the matched categories as "name: description" blocks.
func RenderClassification(w io.Writer, c model.Classification) error {
	_, err := fmt.Fprintln(w, c.String())
	return err
}

// RenderFeatures prints the feature values the rules are evaluated against.
func RenderFeatures(w io.Writer, f model.FeatureSet) error {
	headers := []string{"Feature", "Value"}
	rows := [][]string{
		{"WPM", fmt.Sprintf("%d", f.WPM)},
		{"Text length", fmt.Sprintf("%d", f.TextLength)},
		{"Messages", fmt.Sprintf("%d", f.MessageCount)},
		{"Avg message length", fmt.Sprintf("%.2f", f.AvgMessageLen)},
		{"Sentences", fmt.Sprintf("%d", f.SentenceCount)},
		{"Words", fmt.Sprintf("%d", f.WordCount)},
		{"Diversity", fmt.Sprintf("%.2f", f.Diversity)},
		{"Avg word length", fmt.Sprintf("%.2f", f.AvgWordLength)},
		{"Exclamations /100", fmt.Sprintf("%.2f", f.ExclamRate)},
		{"Periods /100", fmt.Sprintf("%.2f", f.PeriodRate)},
		{"Capitals", fmt.Sprintf("%d", f.Caps)},
		{"Emoji", fmt.Sprintf("%d", f.Emojis)},
		{"Dragged", fmt.Sprintf("%t", f.Dragged)},
		{"Sentiment", fmt.Sprintf("%.3f", f.Sentiment.Comparative)},
		{"Positive words", fmt.Sprintf("%d", len(f.Sentiment.Positive))},
		{"Negative words", fmt.Sprintf("%d", len(f.Sentiment.Negative))},
		{"Entries per hour", fmt.Sprintf("%.2f", f.EntriesPerHour)},
	}
	if _, err := fmt.Fprintln(w, "Features"); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessions prints capture sessions with their key counts.
func RenderSessions(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Session", "Started", "Duration", "Keys"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		id := s.SessionID
		if len(id) > 8 {
			id = id[:8]
		}
		rows = append(rows, []string{
			id,
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.EndedAt.Sub(s.StartedAt).Round(time.Second).String(),
			fmt.Sprintf("%d", s.Keys),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
