package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/report"
	"github.com/verte-zerg/readalong/internal/scoring"
)

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc", "enter":
		m.screen = screenReading
		m.status = ""
		return m, nil
	case "r":
		if err := m.session.Reset(); err != nil {
			m.logger.Warn("failed to reset session", "err", err)
		}
		m.screen = screenReading
		m.status = ""
		return m, nil
	case "c":
		if len(m.report.MissedWords) == 0 {
			m.status = "No words to practice."
			return m, nil
		}
		return m, copyWords(m.clip, m.report.MissedWords)
	}
	return m, nil
}

func (m *Model) viewResults() string {
	r := m.report
	width := modalInnerWidth(m.width)
	lines := []string{
		titleStyle.Render("Reading results"),
		"",
		renderCards(r, width),
		"",
		headerStyle.Render(fmt.Sprintf("%d of %d words read  ·  %d words heard",
			len(r.MatchedWords), r.TotalWords, r.TranscriptWords)),
	}
	if len(r.MissedWords) > 0 {
		shown, more := scoring.PracticeWords(r.MissedWords, scoring.PracticeWordLimit)
		words := make([]styledWord, 0, len(shown)+1)
		for _, w := range shown {
			words = append(words, styledWord{s: accentStyle.Render(w), width: displayWidth(w)})
		}
		if more > 0 {
			label := fmt.Sprintf("+%d more", more)
			words = append(words, styledWord{s: headerStyle.Render(label), width: displayWidth(label)})
		}
		lines = append(lines, "", titleStyle.Render("Words to practice"), wrapStyledWords(words, width))
	}
	lines = append(lines, "", scoring.BandFor(r.Accuracy).Message())
	if m.status != "" {
		lines = append(lines, "", headerStyle.Render(m.status))
	}
	help := []string{"r try again", "esc close", "q quit"}
	if len(r.MissedWords) > 0 {
		help = append([]string{"c copy words"}, help...)
	}
	lines = append(lines, "", footerStyle.Render(strings.Join(help, "  ")))

	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderCards(r model.ScoreReport, width int) string {
	cards := []string{
		metricCard("Accuracy", bandStyle(r.Accuracy).Render(fmt.Sprintf("%d%%", r.Accuracy))),
		metricCard("Fluency", bandStyle(r.Fluency).Render(fmt.Sprintf("%d WPM", r.Fluency))),
		metricCard("Time", titleStyle.Render(report.FormatElapsed(r.ElapsedSeconds))),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > width && width > 0 {
		return strings.Join(cards, "\n")
	}
	return row
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), value)
	return cardStyle.Render(content)
}

func bandStyle(score int) lipgloss.Style {
	switch scoring.BandFor(score) {
	case scoring.BandStrong:
		return strongStyle
	case scoring.BandFair:
		return fairStyle
	default:
		return weakStyle
	}
}

func copyWords(clip Clipboard, words []string) tea.Cmd {
	return func() tea.Msg {
		err := clip.WriteAll(strings.Join(words, " "))
		return copiedMsg{count: len(words), err: err}
	}
}
