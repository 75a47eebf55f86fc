package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/scoring"
	"github.com/verte-zerg/readalong/internal/speech"
)

// Options configures a Session.
type Options struct {
	Scorer   scoring.Scorer
	Source   speech.Source
	Logger   *log.Logger
	MinChars int
}

// Session couples the state machine with a speech source. It is not safe for
// concurrent use; drive it from a single goroutine.
type Session struct {
	id        string
	machine   Machine
	state     State
	source    speech.Source
	capturing bool
	logger    *log.Logger
}

// New validates p and returns an idle session for it.
func New(p model.Paragraph, opts Options) (*Session, error) {
	if err := scoring.ValidateParagraph(p.Text, opts.MinChars); err != nil {
		return nil, err
	}
	if opts.Source == nil {
		opts.Source = speech.Unavailable{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.NewString()
	machine := NewMachine(opts.Scorer)
	return &Session{
		id:      id,
		machine: machine,
		state:   machine.Init(p),
		source:  opts.Source,
		logger:  logger.With("session", id),
	}, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the current snapshot.
func (s *Session) State() State {
	return s.state
}

// Start begins capture and returns the stream of speech events. When the
// source is unavailable the session stays idle and the error is recorded.
func (s *Session) Start(ctx context.Context) (<-chan speech.Event, error) {
	next, err := s.machine.Apply(s.state, Started{})
	if err != nil {
		return nil, err
	}
	events, err := s.source.Start(ctx)
	if err != nil {
		s.state.LastError = err.Error()
		if errors.Is(err, speech.ErrUnsupported) {
			s.logger.Warn("speech recognition unavailable", "err", err)
		} else {
			s.logger.Error("failed to start speech recognition", "err", err)
		}
		return nil, err
	}
	s.capturing = true
	s.state = next
	s.logger.Info("listening", "run", next.Run, "words", len(next.Words))
	return events, nil
}

// Handle applies one speech event.
func (s *Session) Handle(ev speech.Event) error {
	switch ev.Kind {
	case speech.KindInterim, speech.KindFinal:
		return s.apply(Transcript{Final: ev.Kind == speech.KindFinal, Text: ev.Text})
	case speech.KindEnd:
		err := s.release()
		if aerr := s.apply(Ended{}); aerr != nil {
			return aerr
		}
		return err
	case speech.KindError:
		s.logger.Warn("speech recognition error", "code", ev.Code)
		err := s.release()
		if aerr := s.apply(Failed{Code: ev.Code}); aerr != nil {
			return aerr
		}
		return err
	default:
		return fmt.Errorf("unknown speech event kind %d", ev.Kind)
	}
}

// Tick advances the elapsed time of capture run by one second.
func (s *Session) Tick(run int) error {
	return s.apply(Tick{Run: run})
}

// Stop ends capture. It is safe to call when not capturing.
func (s *Session) Stop() error {
	err := s.release()
	if aerr := s.apply(Stopped{}); aerr != nil {
		return aerr
	}
	return err
}

// Evaluate stops any capture and computes the final report.
func (s *Session) Evaluate() (model.ScoreReport, error) {
	if s.state.Phase == PhaseListening {
		if err := s.Stop(); err != nil {
			s.logger.Warn("failed to stop capture before evaluation", "err", err)
		}
	}
	if err := s.apply(EvaluateRequested{}); err != nil {
		return model.ScoreReport{}, err
	}
	report := *s.state.Report
	s.logger.Info("evaluated",
		"accuracy", report.Accuracy,
		"fluency", report.Fluency,
		"elapsed", report.ElapsedSeconds,
		"missed", len(report.MissedWords),
	)
	return report, nil
}

// Reset stops any capture and returns to a clean idle state.
func (s *Session) Reset() error {
	err := s.release()
	if aerr := s.apply(ResetRequested{}); aerr != nil {
		return aerr
	}
	return err
}

// Close releases the capture resource.
func (s *Session) Close() error {
	return s.release()
}

func (s *Session) apply(ev Event) error {
	next, err := s.machine.Apply(s.state, ev)
	if err != nil {
		s.logger.Debug("event rejected", "event", fmt.Sprintf("%T", ev), "phase", s.state.Phase, "err", err)
		return err
	}
	s.state = next
	return nil
}

func (s *Session) release() error {
	if !s.capturing {
		return nil
	}
	s.capturing = false
	if err := s.source.Stop(); err != nil {
		return fmt.Errorf("failed to stop speech source: %w", err)
	}
	return nil
}
