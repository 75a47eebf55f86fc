// Package session drives one reading practice session.
//
// Machine is a pure transition function over State; Session wraps it with a
// speech source and owns the capture lifetime.
package session

import (
	"errors"
	"strings"

	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/scoring"
)

// Phase is the coarse session state.
type Phase int

// Session phases.
const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseEvaluated
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseEvaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

var (
	// ErrNotListening is returned for ticks and transcript updates outside a capture.
	ErrNotListening = errors.New("session is not listening")
	// ErrAlreadyListening is returned when capture is started twice.
	ErrAlreadyListening = errors.New("session is already listening")
	// ErrEvaluated is returned when the session must be reset first.
	ErrEvaluated = errors.New("session already evaluated; reset first")
	// ErrEmptyTranscript is returned when evaluating before anything was heard.
	ErrEmptyTranscript = errors.New("nothing was heard yet")
	// ErrStaleTick is returned for a timer tick from an earlier capture.
	ErrStaleTick = errors.New("tick belongs to an earlier capture")
)

// State is an immutable snapshot of a session.
type State struct {
	Phase     Phase
	Run       int
	Paragraph model.Paragraph
	// Words holds the normalized paragraph tokens.
	Words []string

	Finalized  string
	Interim    string
	Transcript string

	Highlight scoring.HighlightSet
	Accuracy  int
	Elapsed   int

	Report    *model.ScoreReport
	LastError string
}

// Event is an input to Machine.Apply.
type Event interface {
	sessionEvent()
}

// Started begins a capture.
type Started struct{}

// Transcript is a recognition update.
type Transcript struct {
	Final bool
	Text  string
}

// Tick is the once-per-second timer for capture Run.
type Tick struct {
	Run int
}

// Stopped is a user-initiated stop.
type Stopped struct{}

// Ended is the speech source reporting end of stream.
type Ended struct{}

// Failed is the speech source reporting an error.
type Failed struct {
	Code string
}

// EvaluateRequested computes the final report.
type EvaluateRequested struct{}

// ResetRequested clears the session.
type ResetRequested struct{}

func (Started) sessionEvent()           {}
func (Transcript) sessionEvent()        {}
func (Tick) sessionEvent()              {}
func (Stopped) sessionEvent()           {}
func (Ended) sessionEvent()             {}
func (Failed) sessionEvent()            {}
func (EvaluateRequested) sessionEvent() {}
func (ResetRequested) sessionEvent()    {}

// Machine applies events to states.
type Machine struct {
	scorer scoring.Scorer
}

// NewMachine returns a Machine scoring with scorer.
func NewMachine(scorer scoring.Scorer) Machine {
	return Machine{scorer: scorer}
}

// Init returns the idle state for p.
func (m Machine) Init(p model.Paragraph) State {
	return State{
		Phase:     PhaseIdle,
		Paragraph: p,
		Words:     m.scorer.Tokenizer.Words(p.Text),
		Highlight: scoring.HighlightSet{},
	}
}

// Apply returns the state after ev. On error the input state is returned
// unchanged. Apply never mutates st.
func (m Machine) Apply(st State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case Started:
		switch st.Phase {
		case PhaseListening:
			return st, ErrAlreadyListening
		case PhaseEvaluated:
			return st, ErrEvaluated
		}
		next := m.Init(st.Paragraph)
		next.Phase = PhaseListening
		next.Run = st.Run + 1
		return next, nil

	case Transcript:
		if st.Phase != PhaseListening {
			return st, ErrNotListening
		}
		next := st
		if ev.Final {
			next.Finalized = st.Finalized + ev.Text + " "
			next.Interim = ""
		} else {
			next.Interim = ev.Text
		}
		full := strings.TrimSpace(next.Finalized + next.Interim)
		if full == "" {
			return next, nil
		}
		next.Transcript = full
		next.Highlight = scoring.Highlight(st.Words, m.scorer.Tokenizer.Words(full))
		next.Accuracy = scoring.LiveAccuracy(next.Highlight, len(st.Words))
		return next, nil

	case Tick:
		if st.Phase != PhaseListening {
			return st, ErrNotListening
		}
		if ev.Run != st.Run {
			return st, ErrStaleTick
		}
		next := st
		next.Elapsed++
		return next, nil

	case Stopped, Ended:
		if st.Phase != PhaseListening {
			return st, nil
		}
		next := st
		next.Phase = PhaseIdle
		return next, nil

	case Failed:
		if st.Phase == PhaseEvaluated {
			return st, nil
		}
		next := st
		next.Phase = PhaseIdle
		next.LastError = ev.Code
		return next, nil

	case EvaluateRequested:
		if st.Phase == PhaseEvaluated {
			return st, ErrEvaluated
		}
		if len(st.Words) == 0 {
			return st, scoring.ErrEmptyParagraph
		}
		if strings.TrimSpace(st.Transcript) == "" {
			return st, ErrEmptyTranscript
		}
		report, err := m.scorer.Evaluate(st.Paragraph.Text, st.Transcript, st.Elapsed)
		if err != nil {
			return st, err
		}
		next := st
		next.Phase = PhaseEvaluated
		next.Report = &report
		return next, nil

	case ResetRequested:
		next := m.Init(st.Paragraph)
		next.Run = st.Run
		return next, nil
	}
	return st, nil
}
