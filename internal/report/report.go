// Package report renders evaluation results as plain text.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/scoring"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorBold   = "\x1b[1m"

	defaultWidth = 80
	minWidth     = 20
)

// Options controls rendering. A zero Width is detected from the terminal.
type Options struct {
	Color bool
	Width int
}

// AutoOptions picks colour and width for w.
func AutoOptions(w io.Writer) Options {
	return Options{Color: ShouldUseColor(w), Width: TerminalWidth(w)}
}

// Render writes the results panel for r.
func Render(w io.Writer, r model.ScoreReport, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}

	band := scoring.BandFor(r.Accuracy)
	lines := []string{
		paint(opts.Color, colorBold, "Reading results"),
		"",
		fmt.Sprintf("Accuracy  %s", paint(opts.Color, bandColor(band), fmt.Sprintf("%d%%", r.Accuracy))),
		fmt.Sprintf("Fluency   %s", paint(opts.Color, bandColor(scoring.BandFor(r.Fluency)), fmt.Sprintf("%d WPM", r.Fluency))),
		fmt.Sprintf("Time      %s", FormatElapsed(r.ElapsedSeconds)),
		fmt.Sprintf("Words     %d matched, %d missed of %d (%d heard)",
			len(r.MatchedWords), len(r.MissedWords), r.TotalWords, r.TranscriptWords),
		"",
	}
	if len(r.MissedWords) > 0 {
		shown, more := scoring.PracticeWords(r.MissedWords, scoring.PracticeWordLimit)
		lines = append(lines, paint(opts.Color, colorBold, "Words to practice"))
		words := make([]string, len(shown))
		for i, word := range shown {
			words[i] = paint(opts.Color, colorYellow, word)
		}
		lines = append(lines, wrapWords(words, shown, width)...)
		if more > 0 {
			lines = append(lines, fmt.Sprintf("+%d more", more))
		}
		lines = append(lines, "")
	}
	lines = append(lines, band.Message())
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(r.Suggestions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, paint(opts.Color, colorBold, "Heard instead")); err != nil {
		return err
	}
	rows := make([][]string, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		rows = append(rows, []string{s.Missed, s.Heard, fmt.Sprintf("%d", s.Distance)})
	}
	Table(w, []string{"Expected", "Heard", "Edits"}, rows)
	return nil
}

// Table writes rows with the shared borderless table style.
func Table(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.AppendBulk(rows)
	table.Render()
}

// FormatElapsed renders seconds as m:ss.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ShouldUseColor reports whether w is a terminal and NO_COLOR is unset.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// TerminalWidth returns the width of w when it is a terminal.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func bandColor(b scoring.Band) string {
	switch b {
	case scoring.BandStrong:
		return colorGreen
	case scoring.BandFair:
		return colorYellow
	default:
		return colorRed
	}
}

func paint(enabled bool, color, text string) string {
	if !enabled {
		return text
	}
	return color + text + colorReset
}

// wrapWords lays out styled words using the widths of their plain forms.
func wrapWords(styled, plain []string, width int) []string {
	var lines []string
	var b strings.Builder
	used := 0
	for i, word := range styled {
		w := runewidth.StringWidth(plain[i])
		if used > 0 && used+2+w > width {
			lines = append(lines, b.String())
			b.Reset()
			used = 0
		}
		if used > 0 {
			b.WriteString("  ")
			used += 2
		}
		b.WriteString(word)
		used += w
	}
	if used > 0 {
		lines = append(lines, b.String())
	}
	return lines
}
