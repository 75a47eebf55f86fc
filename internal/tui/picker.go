package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/readalong/internal/catalog"
	"github.com/verte-zerg/readalong/internal/model"
)

func (m *Model) initPicker() {
	if m.opts.Catalog != nil {
		m.choices = append(m.choices, m.opts.Catalog.Levels()...)
	}
	if m.opts.Store != nil {
		entries, err := m.opts.Store.ListParagraphs(m.ctx)
		if err != nil {
			m.logger.Error("failed to load library", "err", err)
			m.status = "Could not load saved paragraphs."
		}
		for _, e := range entries {
			m.choices = append(m.choices, catalog.FromLibrary(e))
		}
	}
	m.picker = table.New(
		table.WithColumns(pickerColumns()),
		table.WithRows(pickerRows(m.choices)),
		table.WithFocused(true),
		table.WithHeight(maxInt(1, len(m.choices))),
	)
	m.picker.SetStyles(pickerStyles())
}

func pickerColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Title", Width: 24},
		{Title: "Level", Width: 13},
		{Title: "Words", Width: 6},
		{Title: "Min", Width: 4},
	}
}

func pickerRows(choices []model.Paragraph) []table.Row {
	rows := make([]table.Row, 0, len(choices))
	level, saved := 0, 0
	for _, p := range choices {
		var label string
		if p.Source == model.SourceLibrary {
			saved++
			label = fmt.Sprintf("L%d", saved)
		} else {
			level++
			label = fmt.Sprintf("%d", level)
		}
		title := p.Title
		if p.Emoji != "" {
			title = p.Emoji + " " + title
		}
		rows = append(rows, table.Row{
			label,
			title,
			p.Difficulty,
			fmt.Sprintf("%d", p.WordCount),
			fmt.Sprintf("%d", p.EstimatedMinutes),
		})
	}
	return rows
}

func pickerStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#C89A3A")).
		Bold(true)
	return styles
}

func (m *Model) resizePicker() {
	if m.height <= 0 {
		return
	}
	// Title, blank line, header rows, blank line, status and help.
	m.picker.SetHeight(maxInt(1, minInt(len(m.choices), m.height-7)))
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "enter":
		idx := m.picker.Cursor()
		if idx < 0 || idx >= len(m.choices) {
			return m, nil
		}
		m.openParagraph(m.choices[idx])
		return m, nil
	case "p":
		m.screen = screenPaste
		m.pasteErr = ""
		return m, m.paste.Focus()
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) viewPicker() string {
	lines := []string{
		titleStyle.Render("Choose a paragraph to read aloud"),
		"",
	}
	if len(m.choices) == 0 {
		lines = append(lines, headerStyle.Render("No paragraphs available. Press p to paste your own."))
	} else {
		lines = append(lines, m.picker.View())
	}
	lines = append(lines, "")
	if m.status != "" {
		lines = append(lines, errorStyle.Render(m.status))
	}
	lines = append(lines, footerStyle.Render(strings.Join([]string{
		"↑/↓ move", "enter read", "p paste text", "q quit",
	}, "  ")))
	return strings.Join(lines, "\n")
}
