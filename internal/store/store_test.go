package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typestyle/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typestyle.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestAppendAndLog(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	session := NewSessionID()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, key := range []string{"h", "i", "Enter"} {
		event := model.KeystrokeEvent{PressedAt: start.Add(time.Duration(i) * time.Second), Key: key}
		if err := st.Append(ctx, session, event); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	lines, err := st.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	want := []string{
		"2024-05-01T09:00:00.000Z - Key pressed: h",
		"2024-05-01T09:00:01.000Z - Key pressed: i",
		"2024-05-01T09:00:02.000Z - Key pressed: Enter",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestAppendLinesSkipsMalformed(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	lines := []string{
		"2024-05-01T10:00:00.000Z - Key pressed: a",
		"console noise",
		"",
		"Key pressed:  ",
	}
	imported, skipped, err := st.AppendLines(ctx, NewSessionID(), lines, now)
	if err != nil {
		t.Fatalf("append lines: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Fatalf("expected 2 imported and 1 skipped, got %d and %d", imported, skipped)
	}
	events, err := st.Events(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 2 || events[1].Key != " " {
		t.Fatalf("unexpected events: %+v", events)
	}
	if !events[1].PressedAt.Equal(now) {
		t.Fatalf("expected missing timestamp to be stamped with now, got %v", events[1].PressedAt)
	}
}

func TestClearLog(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Append(ctx, NewSessionID(), model.KeystrokeEvent{PressedAt: time.Now(), Key: "x"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.ClearLog(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	lines, err := st.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty log, got %d lines", len(lines))
	}
}

func TestWPMSetting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	wpm, err := st.CurrentWPM(ctx)
	if err != nil {
		t.Fatalf("current wpm: %v", err)
	}
	if wpm != 0 {
		t.Fatalf("expected default 0 WPM, got %d", wpm)
	}
	for _, v := range []int{42, 87} {
		if err := st.SetWPM(ctx, v); err != nil {
			t.Fatalf("set wpm: %v", err)
		}
	}
	wpm, err = st.CurrentWPM(ctx)
	if err != nil {
		t.Fatalf("current wpm: %v", err)
	}
	if wpm != 87 {
		t.Fatalf("expected 87 WPM, got %d", wpm)
	}
}

func TestListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	first, second := NewSessionID(), NewSessionID()
	for i := 0; i < 3; i++ {
		_ = st.Append(ctx, first, model.KeystrokeEvent{PressedAt: start.Add(time.Duration(i) * time.Second), Key: "a"})
	}
	_ = st.Append(ctx, second, model.KeystrokeEvent{PressedAt: start.Add(time.Hour), Key: "b"})

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != first || sessions[0].Keys != 3 {
		t.Fatalf("unexpected first session: %+v", sessions[0])
	}
	if got := sessions[0].EndedAt.Sub(sessions[0].StartedAt); got != 2*time.Second {
		t.Fatalf("expected 2s span, got %v", got)
	}
	if sessions[1].SessionID != second || sessions[1].Keys != 1 {
		t.Fatalf("unexpected second session: %+v", sessions[1])
	}
}

func TestListSessionsSubSecondSpan(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	session := NewSessionID()
	for _, offset := range []time.Duration{0, 500 * time.Millisecond, 900 * time.Millisecond} {
		if err := st.Append(ctx, session, model.KeystrokeEvent{PressedAt: start.Add(offset), Key: "a"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if !sessions[0].StartedAt.Equal(start) {
		t.Fatalf("expected start %v, got %v", start, sessions[0].StartedAt)
	}
	if got := sessions[0].EndedAt.Sub(sessions[0].StartedAt); got != 900*time.Millisecond {
		t.Fatalf("expected 900ms span, got %v", got)
	}
}
