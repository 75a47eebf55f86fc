package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/readalong/internal/scoring"
)

func TestBuildStyledWordsMarksHeard(t *testing.T) {
	words := []string{"The", "cat", "sat."}
	heard := scoring.HighlightSet{0: {}, 2: {}}

	styled := buildStyledWords(words, heard)
	if len(styled) != 3 {
		t.Fatalf("expected 3 words, got %d", len(styled))
	}
	if styled[0].s != heardStyle.Render("The") {
		t.Fatalf("expected heard style for first word")
	}
	if styled[1].s != pendingStyle.Render("cat") {
		t.Fatalf("expected pending style for second word")
	}
	if styled[2].s != heardStyle.Render("sat.") || styled[2].width != 4 {
		t.Fatalf("expected heard style and width 4 for last word, got %+v", styled[2])
	}
}

func TestWrapStyledWordsBreaksBetweenWords(t *testing.T) {
	words := buildPlainWords(strings.Fields("one two three four five"))
	got := wrapStyledWords(words, 9)
	want := "one two\nthree\nfour five"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapStyledWordsLongWordOwnLine(t *testing.T) {
	words := buildPlainWords([]string{"a", "extraordinarily", "b"})
	got := wrapStyledWords(words, 5)
	want := "a\nextraordinarily\nb"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapStyledWordsUsesDisplayWidth(t *testing.T) {
	words := buildPlainWords([]string{"日本", "語"})
	if words[0].width != 4 {
		t.Fatalf("expected wide runes to count double, got %d", words[0].width)
	}
	got := wrapStyledWords(words, 6)
	if got != "日本\n語" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapStyledWordsNoWidth(t *testing.T) {
	words := buildPlainWords([]string{"a", "b"})
	if got := wrapStyledWords(words, 0); got != "a b" {
		t.Fatalf("expected single line, got %q", got)
	}
}
