// Package keylog parses and formats keystroke log lines.
//
// A log line has the shape "<timestamp> - Key pressed: <token>". The token is
// either a single character or a named key such as "Enter", "Tab" or "CapsLock".
package keylog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typestyle/internal/model"
)

const (
	marker      = "Key pressed: "
	tsSeparator = " - "
)

// TimestampLayout is the fixed-width UTC millisecond stamp written in log lines
// and stored by the keystroke log, e.g. 2024-05-01T09:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Delimiter tokens recognized for segmentation.
const (
	KeyEnter    = "Enter"
	KeyPeriod   = "."
	KeySpace    = " "
	KeyCapsLock = "CapsLock"
	KeyTab      = "Tab"
	KeyBack     = "Backspace"
)

// ParseLine extracts a keystroke event from a log line. Lines that do not
// carry the "Key pressed: " marker or have an empty token are rejected.
func ParseLine(line string) (model.KeystrokeEvent, bool) {
	line = strings.TrimSuffix(line, "\r")
	idx := strings.Index(line, marker)
	if idx < 0 {
		return model.KeystrokeEvent{}, false
	}
	key := line[idx+len(marker):]
	if key == "" {
		return model.KeystrokeEvent{}, false
	}
	event := model.KeystrokeEvent{Key: key}
	if prefix := strings.TrimSuffix(line[:idx], tsSeparator); prefix != "" {
		if ts, err := ParseTimestamp(strings.TrimSpace(prefix)); err == nil {
			event.PressedAt = ts
		}
	}
	return event, true
}

// FormatLine renders an event in the log line shape.
func FormatLine(event model.KeystrokeEvent) string {
	return FormatTimestamp(event.PressedAt) + tsSeparator + marker + event.Key
}

// FormatTimestamp renders t in TimestampLayout. Sub-millisecond precision is
// truncated so stamps sort lexically in time order.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 stamp, with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Parse returns the events of all well-formed lines, in order.
func Parse(lines []string) []model.KeystrokeEvent {
	events := make([]model.KeystrokeEvent, 0, len(lines))
	for _, line := range lines {
		if event, ok := ParseLine(line); ok {
			events = append(events, event)
		}
	}
	return events
}

// SplitLines splits raw log text into lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// JoinLines is the flattened text form of a log: every line ends with a newline.
func JoinLines(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Keys returns the key tokens of events.
func Keys(events []model.KeystrokeEvent) []string {
	keys := make([]string, len(events))
	for i, e := range events {
		keys[i] = e.Key
	}
	return keys
}

// JoinKeys concatenates key tokens as they were typed.
func JoinKeys(events []model.KeystrokeEvent) string {
	var b strings.Builder
	for _, e := range events {
		b.WriteString(e.Key)
	}
	return b.String()
}

// Typed reconstructs the visible text of events: Enter becomes a newline, Tab
// a tab, Backspace removes the previous rune and other named keys are dropped.
func Typed(events []model.KeystrokeEvent) string {
	var out []rune
	for _, e := range events {
		switch {
		case e.Key == KeyEnter:
			out = append(out, '\n')
		case e.Key == KeyTab:
			out = append(out, '\t')
		case e.Key == KeyBack:
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case utf8.RuneCountInString(e.Key) == 1:
			out = append(out, []rune(e.Key)...)
		}
	}
	return string(out)
}
