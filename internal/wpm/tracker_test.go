package wpm

import (
	"math"
	"testing"
	"time"
)

func typeText(tr *Tracker, start time.Time, text string, step time.Duration) (time.Time, int) {
	now := start
	wpm := 0
	for _, r := range text {
		wpm = tr.Observe(string(r), false, now)
		now = now.Add(step)
	}
	return now, wpm
}

func TestTrackerComputesWPM(t *testing.T) {
	tr := NewTracker(DefaultIdle)
	start := time.Unix(1000, 0)
	// 10 words over 60 chars at 100ms per key: the last space lands at 5.9s.
	_, wpm := typeText(tr, start, "hello hello hello hello hello hello hello hello hello hello ", 100*time.Millisecond)
	if tr.Words() != 10 {
		t.Fatalf("expected 10 words, got %d", tr.Words())
	}
	want := int(math.Round(10 / (5.9 / 60)))
	if wpm != want {
		t.Fatalf("expected %d WPM, got %d", want, wpm)
	}
}

func TestTrackerZeroWithoutWords(t *testing.T) {
	tr := NewTracker(DefaultIdle)
	start := time.Unix(1000, 0)
	if _, wpm := typeText(tr, start, "abc", time.Second); wpm != 0 {
		t.Fatalf("expected 0 WPM without completed words, got %d", wpm)
	}
	if wpm := tr.Observe(" ", false, start); wpm != 0 {
		t.Fatalf("expected 0 WPM with zero elapsed time, got %d", wpm)
	}
}

func TestTrackerIgnoresModifiedAndNamedKeys(t *testing.T) {
	tr := NewTracker(DefaultIdle)
	now := time.Unix(1000, 0)
	tr.Observe(" ", true, now)
	tr.Observe("Enter", false, now)
	tr.Observe("Shift", false, now)
	if tr.Words() != 0 {
		t.Fatalf("expected no words, got %d", tr.Words())
	}
	if !tr.startTime.IsZero() {
		t.Fatalf("expected burst not to start on modified or named keys")
	}
}

func TestTrackerIdleReset(t *testing.T) {
	tr := NewTracker(5 * time.Second)
	start := time.Unix(1000, 0)
	end, _ := typeText(tr, start, "one two ", 200*time.Millisecond)
	if tr.Tick(end.Add(4 * time.Second)) {
		t.Fatalf("expected no reset before idle window")
	}
	if !tr.Tick(end.Add(6 * time.Second)) {
		t.Fatalf("expected reset after idle window")
	}
	if tr.Words() != 0 || tr.Current(end.Add(7*time.Second)) != 0 {
		t.Fatalf("expected cleared burst after reset")
	}
	if tr.Tick(end.Add(20 * time.Second)) {
		t.Fatalf("expected a single reset per idle period")
	}
}

func TestTrackerModifiedKeyPostponesReset(t *testing.T) {
	tr := NewTracker(5 * time.Second)
	start := time.Unix(1000, 0)
	tr.Observe("a", false, start)
	tr.Observe("c", true, start.Add(4*time.Second))
	if tr.Tick(start.Add(6 * time.Second)) {
		t.Fatalf("expected modified key press to postpone reset")
	}
}
