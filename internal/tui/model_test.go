package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/readalong/internal/catalog"
	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/scoring"
	"github.com/verte-zerg/readalong/internal/session"
	"github.com/verte-zerg/readalong/internal/speech"
)

type fakeSource struct {
	events chan speech.Event
	starts int
	stops  int
}

func (f *fakeSource) Start(context.Context) (<-chan speech.Event, error) {
	f.starts++
	f.events = make(chan speech.Event, 8)
	return f.events, nil
}

func (f *fakeSource) Stop() error {
	f.stops++
	return nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) {
	return c.text, c.err
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return c.err
}

const testParagraph = "The quick brown fox jumps over the lazy dog."

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	scorer, err := scoring.NewScorer("en")
	if err != nil {
		t.Fatalf("scorer: %v", err)
	}
	opts.Scorer = scorer
	opts.Logger = log.New(io.Discard)
	if opts.Catalog == nil {
		c, err := catalog.Builtin()
		if err != nil {
			t.Fatalf("catalog: %v", err)
		}
		opts.Catalog = c
	}
	return NewModel(context.Background(), opts)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestReadingFlow(t *testing.T) {
	src := &fakeSource{}
	p := catalog.Custom(testParagraph)
	m := newTestModel(t, Options{Source: src, Paragraph: &p})
	if m.screen != screenReading {
		t.Fatalf("expected reading screen, got %d", m.screen)
	}

	if cmd := send(m, key("s")); cmd == nil {
		t.Fatalf("expected wait and tick commands after start")
	}
	if m.session.State().Phase != session.PhaseListening || src.starts != 1 {
		t.Fatalf("expected listening after start")
	}
	capture := m.capture

	send(m, speechMsg{capture: capture, event: speech.Event{Kind: speech.KindFinal, Text: "the quick brown"}, ok: true})
	send(m, speechMsg{capture: capture, event: speech.Event{Kind: speech.KindInterim, Text: "fox"}, ok: true})
	st := m.session.State()
	if st.Highlight.Len() != 5 {
		t.Fatalf("expected both 'the' words plus quick brown fox highlighted, got %v", st.Highlight.Indices())
	}

	send(m, tickMsg{capture: capture, run: st.Run})
	send(m, tickMsg{capture: capture, run: st.Run})
	send(m, tickMsg{capture: capture - 1, run: st.Run})
	if got := m.session.State().Elapsed; got != 2 {
		t.Fatalf("expected 2 seconds elapsed, got %d", got)
	}

	send(m, key("e"))
	if m.screen != screenResults {
		t.Fatalf("expected results screen")
	}
	if src.stops != 1 {
		t.Fatalf("expected evaluation to stop capture once, got %d", src.stops)
	}
	if m.report.Accuracy != 56 || m.report.Fluency != 270 {
		t.Fatalf("unexpected report %+v", m.report)
	}
	if !strings.Contains(m.View(), "Words to practice") {
		t.Fatalf("expected practice words in results view")
	}

	send(m, key("r"))
	if m.screen != screenReading || m.session.State().Phase != session.PhaseIdle {
		t.Fatalf("expected reset back to idle reading screen")
	}
	if m.session.State().Transcript != "" {
		t.Fatalf("expected reset to clear transcript")
	}
}

func TestStaleSpeechIgnoredAfterRestart(t *testing.T) {
	src := &fakeSource{}
	p := catalog.Custom(testParagraph)
	m := newTestModel(t, Options{Source: src, Paragraph: &p})

	send(m, key("s"))
	first := m.capture
	send(m, key("x"))
	send(m, key("s"))
	if m.capture == first {
		t.Fatalf("expected a new capture number")
	}
	send(m, speechMsg{capture: first, event: speech.Event{Kind: speech.KindFinal, Text: "lazy dog"}, ok: true})
	if m.session.State().Transcript != "" {
		t.Fatalf("expected stale event to be ignored, got %q", m.session.State().Transcript)
	}
}

func TestSpeechErrorShowsMessage(t *testing.T) {
	src := &fakeSource{}
	p := catalog.Custom(testParagraph)
	m := newTestModel(t, Options{Source: src, Paragraph: &p})

	send(m, key("s"))
	send(m, speechMsg{capture: m.capture, event: speech.Event{Kind: speech.KindError, Code: "no-speech"}, ok: true})
	if m.session.State().Phase != session.PhaseIdle {
		t.Fatalf("expected idle after error")
	}
	if !strings.Contains(m.View(), "No speech was detected") {
		t.Fatalf("expected error message in view")
	}
	if src.stops != 1 {
		t.Fatalf("expected capture released on error, got %d stops", src.stops)
	}
}

func TestStartWithoutRecognizer(t *testing.T) {
	p := catalog.Custom(testParagraph)
	m := newTestModel(t, Options{Paragraph: &p})

	if cmd := send(m, key("s")); cmd != nil {
		t.Fatalf("expected no commands without a recognizer")
	}
	if m.session.State().Phase != session.PhaseIdle {
		t.Fatalf("expected to stay idle")
	}
	if !strings.Contains(m.status, "not available") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestEvaluateBeforeSpeaking(t *testing.T) {
	p := catalog.Custom(testParagraph)
	m := newTestModel(t, Options{Source: &fakeSource{}, Paragraph: &p})

	send(m, key("e"))
	if m.screen != screenReading || !strings.Contains(m.status, "Nothing was heard") {
		t.Fatalf("expected to stay on reading screen with notice, status %q", m.status)
	}
}

func TestPickerOpensLevel(t *testing.T) {
	m := newTestModel(t, Options{Source: &fakeSource{}})
	if m.screen != screenPicker {
		t.Fatalf("expected picker screen")
	}
	if len(m.choices) != 10 {
		t.Fatalf("expected 10 choices, got %d", len(m.choices))
	}
	send(m, tea.KeyMsg{Type: tea.KeyDown})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenReading {
		t.Fatalf("expected reading screen after enter")
	}
	want, _ := m.opts.Catalog.Level(2)
	if m.session.State().Paragraph.Title != want.Title {
		t.Fatalf("expected level 2, got %q", m.session.State().Paragraph.Title)
	}

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenPicker || m.session != nil {
		t.Fatalf("expected esc to return to picker")
	}
}

func TestPasteFlow(t *testing.T) {
	clip := &fakeClipboard{text: "too short"}
	m := newTestModel(t, Options{Source: &fakeSource{}, Paste: true, Clipboard: clip, MinChars: -1})
	if m.screen != screenPaste {
		t.Fatalf("expected paste screen")
	}

	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlV})
	if cmd == nil {
		t.Fatalf("expected clipboard command")
	}
	send(m, cmd())
	if m.paste.Value() != "too short" {
		t.Fatalf("expected pasted text, got %q", m.paste.Value())
	}
	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.screen != screenPaste || !strings.Contains(m.pasteErr, "at least 20") {
		t.Fatalf("expected minimum length error, got %q", m.pasteErr)
	}

	m.paste.SetValue(testParagraph)
	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.screen != screenReading {
		t.Fatalf("expected reading screen, error %q", m.pasteErr)
	}
	if got := m.session.State().Paragraph; got.Source != model.SourceCustom || got.Text != testParagraph {
		t.Fatalf("unexpected custom paragraph %+v", got)
	}

	clip.err = errors.New("no clipboard")
	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	send(m, key("p"))
	send(m, send(m, tea.KeyMsg{Type: tea.KeyCtrlV})())
	if !strings.Contains(m.pasteErr, "no clipboard") {
		t.Fatalf("expected clipboard error, got %q", m.pasteErr)
	}
}

func TestPasteWithoutMinimum(t *testing.T) {
	m := newTestModel(t, Options{Source: &fakeSource{}, Paste: true, MinChars: 0})
	if m.opts.MinChars != 0 {
		t.Fatalf("expected minimum to stay 0, got %d", m.opts.MinChars)
	}
	m.paste.SetValue("hi there")
	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.screen != screenReading {
		t.Fatalf("expected reading screen, error %q", m.pasteErr)
	}
	if got := m.session.State().Paragraph.Text; got != "hi there" {
		t.Fatalf("unexpected paragraph %q", got)
	}

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	send(m, key("p"))
	m.paste.SetValue("   ")
	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.screen != screenPaste || m.pasteErr == "" {
		t.Fatalf("expected blank text to be rejected, screen %v", m.screen)
	}
}

func TestCopyPracticeWords(t *testing.T) {
	clip := &fakeClipboard{}
	p := catalog.Custom(testParagraph)
	m := newTestModel(t, Options{Source: &fakeSource{}, Paragraph: &p, Clipboard: clip})

	send(m, key("s"))
	send(m, speechMsg{capture: m.capture, event: speech.Event{Kind: speech.KindFinal, Text: "the quick brown fox"}, ok: true})
	send(m, key("e"))
	cmd := send(m, key("c"))
	if cmd == nil {
		t.Fatalf("expected copy command")
	}
	send(m, cmd())
	if clip.text != "jumps over lazy dog." {
		t.Fatalf("unexpected clipboard %q", clip.text)
	}
	if !strings.Contains(m.status, "Copied 4") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestRenderHeader(t *testing.T) {
	p := catalog.Custom(testParagraph)
	m := newTestModel(t, Options{Source: &fakeSource{}, Paragraph: &p})
	send(m, key("s"))
	send(m, speechMsg{capture: m.capture, event: speech.Event{Kind: speech.KindFinal, Text: "quick"}, ok: true})
	for i := 0; i < 65; i++ {
		send(m, tickMsg{capture: m.capture, run: m.session.State().Run})
	}
	out := m.renderHeader(m.session.State())
	for _, want := range []string{"Listening", "Time 1:05", "Words 1/9", "Accuracy 11%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("header missing %q: %s", want, out)
		}
	}
}
