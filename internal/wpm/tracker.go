// Package wpm tracks live words-per-minute during a typing burst.
package wpm

import (
	"math"
	"time"
	"unicode/utf8"
)

// DefaultIdle is how long the keyboard must be quiet before a burst resets.
const DefaultIdle = 5 * time.Second

// Tracker holds the state of the current typing burst. It is not safe for
// concurrent use; the capture loop owns it.
type Tracker struct {
	idle      time.Duration
	startTime time.Time
	wordCount int
	lastKeyAt time.Time
}

// NewTracker returns a Tracker that resets after idle without key presses.
func NewTracker(idle time.Duration) *Tracker {
	if idle <= 0 {
		idle = DefaultIdle
	}
	return &Tracker{idle: idle}
}

// Observe records a key press and returns the current WPM. Only single
// characters typed without Ctrl/Alt/Meta count toward the burst; a space or
// newline completes a word. Every key press postpones the idle reset.
func (t *Tracker) Observe(key string, modified bool, now time.Time) int {
	t.lastKeyAt = now
	if modified || utf8.RuneCountInString(key) != 1 {
		return t.Current(now)
	}
	if t.startTime.IsZero() {
		t.startTime = now
	}
	if key == " " || key == "\n" {
		t.wordCount++
	}
	return t.Current(now)
}

// Current returns completed words divided by elapsed minutes, rounded.
func (t *Tracker) Current(now time.Time) int {
	if t.startTime.IsZero() || t.wordCount == 0 {
		return 0
	}
	minutes := now.Sub(t.startTime).Minutes()
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(float64(t.wordCount) / minutes))
}

// Tick is driven by an external scheduler. When the idle window has passed
// since the last key press it clears the burst and reports true.
func (t *Tracker) Tick(now time.Time) bool {
	if t.lastKeyAt.IsZero() || now.Sub(t.lastKeyAt) < t.idle {
		return false
	}
	t.startTime = time.Time{}
	t.wordCount = 0
	t.lastKeyAt = time.Time{}
	return true
}

// Words returns the number of completed words in the current burst.
func (t *Tracker) Words() int {
	return t.wordCount
}
