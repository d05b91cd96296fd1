package tui

import (
	"strings"
	"testing"
)

func plain(text string) []styledRune {
	runes := make([]styledRune, 0, len(text))
	for _, r := range text {
		switch r {
		case '\n':
			runes = append(runes, styledRune{isBreak: true})
		default:
			runes = append(runes, styledRune{s: string(r), width: 1, isSpace: r == ' '})
		}
	}
	return runes
}

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), true)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[0].s != typedStyle.Render("a") {
		t.Fatalf("expected typed style for first rune")
	}
	if runes[2].s != cursorStyle.Render(" ") {
		t.Fatalf("expected cursor cell at the end")
	}
}

func TestBuildStyledRunesBreaksAndTabs(t *testing.T) {
	runes := buildStyledRunes([]rune("a\n\tb"), false)
	if len(runes) != 4 {
		t.Fatalf("expected 4 runes, got %d", len(runes))
	}
	if !runes[1].isBreak {
		t.Fatalf("expected newline to become a break")
	}
	if !runes[2].isSpace || runes[2].width != tabWidth {
		t.Fatalf("expected tab to be a %d-wide space, got %+v", tabWidth, runes[2])
	}
}

func TestWrapStyledRunesAtSpace(t *testing.T) {
	got := wrapStyledRunes(plain("hello big world"), 10)
	if got != "hello big\nworld" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapStyledRunesLongWord(t *testing.T) {
	got := wrapStyledRunes(plain("abcdefgh"), 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapStyledRunesKeepsBreaks(t *testing.T) {
	got := wrapStyledRunes(plain("hi\nthere"), 20)
	if got != "hi\nthere" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestTailLines(t *testing.T) {
	if got := tailLines("a\nb\nc", 2); got != "b\nc" {
		t.Fatalf("unexpected tail: %q", got)
	}
	if got := tailLines("a", 3); got != "a" {
		t.Fatalf("unexpected tail: %q", got)
	}
	if !strings.Contains(tailLines("x\ny", 5), "x") {
		t.Fatalf("expected short input to be kept")
	}
}
