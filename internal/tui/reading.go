package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/report"
	"github.com/verte-zerg/readalong/internal/session"
	"github.com/verte-zerg/readalong/internal/speech"
)

var speechErrorMessages = map[string]string{
	"no-speech":            "No speech was detected. Please try again.",
	"audio-capture":        "No microphone was found. Check your audio input.",
	"not-allowed":          "Microphone access was denied.",
	"network":              "The speech recognizer lost its connection.",
	speech.CodeProcessExit: "The speech recognizer stopped unexpectedly.",
	speech.CodeReadFailed:  "Could not read from the speech recognizer.",
}

func (m *Model) openParagraph(p model.Paragraph) {
	if err := m.Close(); err != nil {
		m.logger.Warn("failed to close previous session", "err", err)
	}
	sess, err := session.New(p, session.Options{
		Scorer:   m.opts.Scorer,
		Source:   m.opts.Source,
		Logger:   m.logger,
		MinChars: m.opts.MinChars,
	})
	if err != nil {
		m.session = nil
		m.status = fmt.Sprintf("Cannot practice %q: %v", p.Title, err)
		m.screen = screenPicker
		return
	}
	m.session = sess
	m.surface = m.opts.Scorer.Tokenizer.Tokens(p.Text)
	m.capture++
	m.events = nil
	m.status = ""
	m.screen = screenReading
	m.logger.Debug("opened paragraph", "title", p.Title, "source", p.Source, "session", sess.ID())
}

func (m *Model) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc":
		if err := m.Close(); err != nil {
			m.logger.Warn("failed to close session", "err", err)
		}
		m.session = nil
		m.capture++
		m.events = nil
		m.status = ""
		if len(m.choices) == 0 {
			return m.quit()
		}
		m.screen = screenPicker
		return m, nil
	case "s":
		return m.startListening()
	case "x":
		if err := m.session.Stop(); err != nil {
			m.logger.Warn("failed to stop listening", "err", err)
		}
		m.status = ""
		return m, nil
	case "e":
		return m.evaluate()
	case "r":
		if err := m.session.Reset(); err != nil {
			m.logger.Warn("failed to reset session", "err", err)
		}
		m.status = ""
		return m, nil
	case "t":
		m.showSpoken = !m.showSpoken
		return m, nil
	}
	return m, nil
}

func (m *Model) startListening() (tea.Model, tea.Cmd) {
	events, err := m.session.Start(m.ctx)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrEvaluated):
		m.status = "Press r to try again."
		return m, nil
	case errors.Is(err, session.ErrAlreadyListening):
		return m, nil
	case errors.Is(err, speech.ErrUnsupported):
		m.status = "Speech recognition is not available. Set speech-cmd or speech-script."
		return m, nil
	default:
		m.status = "Could not start listening: " + err.Error()
		return m, nil
	}
	m.capture++
	m.events = events
	m.status = ""
	run := m.session.State().Run
	return m, tea.Batch(waitForSpeech(m.capture, events), tick(m.capture, run))
}

func (m *Model) evaluate() (tea.Model, tea.Cmd) {
	r, err := m.session.Evaluate()
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyTranscript):
			m.status = "Nothing was heard yet. Press s and read the paragraph aloud."
		case errors.Is(err, session.ErrEvaluated):
			m.screen = screenResults
		default:
			m.status = "Could not evaluate: " + err.Error()
		}
		return m, nil
	}
	m.report = r
	m.status = ""
	m.screen = screenResults
	return m, nil
}

func (m *Model) handleSpeech(msg speechMsg) (tea.Model, tea.Cmd) {
	if msg.capture != m.capture || m.session == nil {
		return m, nil
	}
	if !msg.ok {
		m.events = nil
		return m, nil
	}
	if err := m.session.Handle(msg.event); err != nil {
		m.logger.Debug("speech event dropped", "kind", msg.event.Kind, "err", err)
	}
	if m.events == nil {
		return m, nil
	}
	return m, waitForSpeech(msg.capture, m.events)
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.capture != m.capture || m.session == nil {
		return m, nil
	}
	if err := m.session.Tick(msg.run); err != nil {
		return m, nil
	}
	return m, tick(msg.capture, msg.run)
}

func waitForSpeech(capture int, events <-chan speech.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return speechMsg{capture: capture, event: ev, ok: ok}
	}
}

func tick(capture, run int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{capture: capture, run: run}
	})
}

func (m *Model) viewReading() string {
	if m.session == nil {
		return ""
	}
	st := m.session.State()
	contentWidth := m.contentWidth()

	lines := []string{m.renderTitle(st), m.renderHeader(st), ""}
	words := buildStyledWords(m.surface, st.Highlight)
	lines = append(lines, wrapStyledWords(words, contentWidth))

	if m.showSpoken {
		spoken := st.Transcript
		if spoken == "" {
			spoken = headerStyle.Render("Nothing heard yet.")
		} else {
			spoken = wrapStyledWords(buildPlainWords(strings.Fields(spoken)), maxInt(1, contentWidth-4))
		}
		lines = append(lines, "", spokenStyle.Width(contentWidth).Render(spoken))
	}

	lines = append(lines, "")
	if msg := m.renderNotice(st); msg != "" {
		lines = append(lines, msg)
	}
	lines = append(lines, m.renderHelp(st))
	content := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderTitle(st session.State) string {
	p := st.Paragraph
	title := titleStyle.Render(p.Title)
	if p.Emoji != "" {
		title = p.Emoji + " " + title
	}
	if p.Difficulty != "" {
		title += "  " + headerStyle.Render(p.Difficulty)
	}
	return title
}

func (m *Model) renderHeader(st session.State) string {
	segments := []string{
		phaseLabel(st.Phase),
		fmt.Sprintf("Time %s", report.FormatElapsed(st.Elapsed)),
		fmt.Sprintf("Words %d/%d", st.Highlight.Len(), len(st.Words)),
		fmt.Sprintf("Accuracy %d%%", st.Accuracy),
	}
	return headerStyle.Render(strings.Join(segments, "  "))
}

func phaseLabel(p session.Phase) string {
	switch p {
	case session.PhaseListening:
		return accentStyle.Render("● Listening")
	case session.PhaseEvaluated:
		return "Done"
	default:
		return "Ready"
	}
}

func (m *Model) renderNotice(st session.State) string {
	if m.status != "" {
		return errorStyle.Render(m.status)
	}
	if st.LastError == "" {
		return ""
	}
	if text, ok := speechErrorMessages[st.LastError]; ok {
		return errorStyle.Render(text)
	}
	return errorStyle.Render("Speech recognition error: " + st.LastError)
}

func (m *Model) renderHelp(st session.State) string {
	var keys []string
	switch st.Phase {
	case session.PhaseListening:
		keys = []string{"x stop", "e evaluate", "r reset"}
	case session.PhaseEvaluated:
		keys = []string{"e results", "r try again"}
	default:
		keys = []string{"s start"}
		if st.Transcript != "" {
			keys = append(keys, "e evaluate", "r reset")
		}
	}
	toggle := "t show spoken text"
	if m.showSpoken {
		toggle = "t hide spoken text"
	}
	keys = append(keys, toggle, "esc back", "q quit")
	return footerStyle.Render(strings.Join(keys, "  "))
}
