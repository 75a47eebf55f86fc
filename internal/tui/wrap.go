package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/readalong/internal/scoring"
)

type styledWord struct {
	s     string
	width int
}

// buildStyledWords styles paragraph words by whether they were heard.
func buildStyledWords(words []string, heard scoring.HighlightSet) []styledWord {
	out := make([]styledWord, 0, len(words))
	for i, word := range words {
		style := pendingStyle
		if heard.Has(i) {
			style = heardStyle
		}
		out = append(out, styledWord{s: style.Render(word), width: displayWidth(word)})
	}
	return out
}

func buildPlainWords(words []string) []styledWord {
	out := make([]styledWord, 0, len(words))
	for _, word := range words {
		out = append(out, styledWord{s: word, width: displayWidth(word)})
	}
	return out
}

func renderStyledWords(words []styledWord) string {
	var b strings.Builder
	for i, item := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledWords breaks lines between words. A word wider than width gets a
// line of its own.
func wrapStyledWords(words []styledWord, width int) string {
	if width <= 0 {
		return renderStyledWords(words)
	}
	var out strings.Builder
	lineWidth := 0
	for _, item := range words {
		if lineWidth > 0 && lineWidth+1+item.width > width {
			out.WriteRune('\n')
			lineWidth = 0
		}
		if lineWidth > 0 {
			out.WriteByte(' ')
			lineWidth++
		}
		out.WriteString(item.s)
		lineWidth += item.width
	}
	return out.String()
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
