// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/readalong/internal/catalog"
	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/scoring"
	"github.com/verte-zerg/readalong/internal/session"
	"github.com/verte-zerg/readalong/internal/speech"
	"github.com/verte-zerg/readalong/internal/store"
)

type screen int

const (
	screenPicker screen = iota
	screenPaste
	screenReading
	screenResults
)

var (
	heardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#2F6B3A"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	strongStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	fairStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	weakStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	spokenStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Foreground(lipgloss.Color("#B0B0B0"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Options configures the reading UI.
type Options struct {
	Catalog *catalog.Catalog
	// Store is optional; saved paragraphs are listed after the built-ins.
	Store    *store.Store
	Scorer   scoring.Scorer
	Source   speech.Source
	Logger   *log.Logger
	// MinChars is the shortest accepted paragraph. Zero accepts any
	// non-empty text; a negative value selects the default.
	MinChars int
	// Paragraph opens the reading screen directly.
	Paragraph *model.Paragraph
	// Paste opens the paste editor directly.
	Paste     bool
	Clipboard Clipboard
}

// Model implements the Bubble Tea reading UI.
type Model struct {
	ctx    context.Context
	opts   Options
	logger *log.Logger
	clip   Clipboard

	screen screen
	width  int
	height int

	choices []model.Paragraph
	picker  table.Model

	paste    textarea.Model
	pasteErr string

	session    *session.Session
	surface    []string
	events     <-chan speech.Event
	capture    int
	showSpoken bool
	status     string
	report     model.ScoreReport
}

// speechMsg carries one event from the capture numbered capture.
type speechMsg struct {
	capture int
	event   speech.Event
	ok      bool
}

// tickMsg advances the timer of a capture run.
type tickMsg struct {
	capture int
	run     int
}

type pastedMsg struct {
	text string
	err  error
}

type copiedMsg struct {
	count int
	err   error
}

// NewModel constructs the reading UI.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Source == nil {
		opts.Source = speech.Unavailable{}
	}
	if opts.MinChars < 0 {
		opts.MinChars = scoring.DefaultMinChars
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	m := &Model{
		ctx:    ctx,
		opts:   opts,
		logger: opts.Logger.WithPrefix("tui"),
		clip:   opts.Clipboard,
	}
	m.initPicker()
	m.initPaste()
	switch {
	case opts.Paragraph != nil:
		m.openParagraph(*opts.Paragraph)
	case opts.Paste:
		m.screen = screenPaste
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.screen == screenPaste {
		return m.paste.Focus()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case speechMsg:
		return m.handleSpeech(msg)
	case tickMsg:
		return m.handleTick(msg)
	case pastedMsg:
		return m.handlePasted(msg)
	case copiedMsg:
		if msg.err != nil {
			m.status = "Could not copy to clipboard: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Copied %d practice words to clipboard.", msg.count)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.screen {
		case screenPicker:
			return m.updatePicker(msg)
		case screenPaste:
			return m.updatePaste(msg)
		case screenReading:
			return m.updateReading(msg)
		case screenResults:
			return m.updateResults(msg)
		}
	}
	if m.screen == screenPaste {
		var cmd tea.Cmd
		m.paste, cmd = m.paste.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var out string
	switch m.screen {
	case screenPicker:
		out = m.viewPicker()
	case screenPaste:
		out = m.viewPaste()
	case screenReading:
		out = m.viewReading()
	case screenResults:
		out = m.viewResults()
	}
	if m.width == 0 || m.height == 0 {
		return out
	}
	return fitLines(out, m.width, m.height)
}

// Close releases the active session.
func (m *Model) Close() error {
	if m.session == nil {
		return nil
	}
	return m.session.Close()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if err := m.Close(); err != nil {
		m.logger.Warn("failed to close session", "err", err)
	}
	return m, tea.Quit
}

func (m *Model) updateLayout() {
	m.resizePicker()
	m.resizePaste()
}
