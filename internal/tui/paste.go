package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/readalong/internal/catalog"
	"github.com/verte-zerg/readalong/internal/scoring"
)

func (m *Model) initPaste() {
	ta := textarea.New()
	ta.Placeholder = "Paste or type a paragraph you want to practice..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(8)
	m.paste = ta
}

func (m *Model) resizePaste() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.paste.SetWidth(maxInt(20, minInt(m.width-4, 100)))
	m.paste.SetHeight(maxInt(3, minInt(m.height-8, 16)))
}

func (m *Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.paste.Blur()
		m.pasteErr = ""
		if len(m.choices) == 0 {
			return m.quit()
		}
		m.screen = screenPicker
		return m, nil
	case "ctrl+v":
		return m, readClipboard(m.clip)
	case "ctrl+s":
		return m.submitPaste()
	}
	var cmd tea.Cmd
	m.paste, cmd = m.paste.Update(msg)
	return m, cmd
}

func (m *Model) handlePasted(msg pastedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.pasteErr = "Could not read clipboard: " + msg.err.Error()
		return m, nil
	}
	m.paste.InsertString(msg.text)
	m.pasteErr = ""
	return m, nil
}

func (m *Model) submitPaste() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.paste.Value())
	if err := scoring.ValidateParagraph(text, m.opts.MinChars); err != nil {
		switch {
		case errors.Is(err, scoring.ErrParagraphTooShort):
			m.pasteErr = fmt.Sprintf("Please enter at least %d characters.", m.opts.MinChars)
		case errors.Is(err, scoring.ErrEmptyParagraph):
			m.pasteErr = "Please enter some text to read."
		default:
			m.pasteErr = err.Error()
		}
		return m, nil
	}
	m.paste.Blur()
	m.pasteErr = ""
	m.openParagraph(catalog.Custom(text))
	return m, nil
}

func (m *Model) viewPaste() string {
	count := len([]rune(strings.TrimSpace(m.paste.Value())))
	lines := []string{
		titleStyle.Render("Practice with your own text"),
		"",
		m.paste.View(),
		headerStyle.Render(fmt.Sprintf("%d characters (minimum %d)", count, m.opts.MinChars)),
	}
	if m.pasteErr != "" {
		lines = append(lines, errorStyle.Render(m.pasteErr))
	}
	lines = append(lines, "", footerStyle.Render(strings.Join([]string{
		"ctrl+v paste", "ctrl+s start reading", "esc back",
	}, "  ")))
	return strings.Join(lines, "\n")
}

func readClipboard(clip Clipboard) tea.Cmd {
	return func() tea.Msg {
		text, err := clip.ReadAll()
		return pastedMsg{text: text, err: err}
	}
}
