// Package speech defines the speech-to-text sources that feed a reading
// session.
//
// A Source streams Events on a channel once started. Interim events carry a
// provisional guess that the next event supersedes; Final events are appended
// to the transcript for good. Every stream ends with an End event unless it
// was stopped, and the channel is closed afterwards.
//
// Sources speak a small line protocol so any recognizer that can print lines
// can drive a session:
//
//	final<TAB>the quick brown fox
//	interim<TAB>the quick
//	error<TAB>no-speech
//
// A line without a recognized prefix is a final segment.
package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Kind classifies a speech event.
type Kind int

// Event kinds.
const (
	KindInterim Kind = iota
	KindFinal
	KindEnd
	KindError
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindInterim:
		return "interim"
	case KindFinal:
		return "final"
	case KindEnd:
		return "end"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one notification from a speech source.
type Event struct {
	Kind Kind
	Text string
	Code string
}

// Error codes reported by the built-in sources.
const (
	CodeProcessExit = "process-exit"
	CodeReadFailed  = "read-failed"
)

var (
	// ErrUnsupported is returned when no speech recognizer is available.
	ErrUnsupported = errors.New("speech recognition is not available")
	// ErrAlreadyStarted is returned when Start is called on a running source.
	ErrAlreadyStarted = errors.New("speech source already started")
)

// Source is a startable stream of speech events.
type Source interface {
	// Start begins capture. The returned channel is closed when capture ends.
	Start(ctx context.Context) (<-chan Event, error)
	// Stop ends capture and releases its resources. It is safe to call at any
	// time, any number of times.
	Stop() error
}

// ParseLine decodes one line of the speech line protocol. Blank lines are
// reported as not ok.
func ParseLine(line string) (Event, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Event{}, false
	}
	if prefix, rest, ok := strings.Cut(line, "\t"); ok {
		switch strings.ToLower(strings.TrimSpace(prefix)) {
		case "final":
			return Event{Kind: KindFinal, Text: strings.TrimSpace(rest)}, true
		case "interim":
			return Event{Kind: KindInterim, Text: strings.TrimSpace(rest)}, true
		case "error":
			return Event{Kind: KindError, Code: strings.TrimSpace(rest)}, true
		}
	}
	return Event{Kind: KindFinal, Text: strings.TrimSpace(line)}, true
}

// Unavailable is the Source used when no recognizer is configured.
type Unavailable struct{}

// Start always fails with ErrUnsupported.
func (Unavailable) Start(context.Context) (<-chan Event, error) {
	return nil, ErrUnsupported
}

// Stop is a no-op.
func (Unavailable) Stop() error {
	return nil
}

const stopTimeout = 2 * time.Second

// stream tracks the lifetime of one capture run.
type stream struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

func (s *stream) begin(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.stopped = false
	return runCtx, nil
}

// finish marks the run as over; it is called by the producer goroutine.
func (s *stream) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	close(s.done)
}

func (s *stream) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *stream) stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.cancel()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-time.After(stopTimeout):
		return errors.New("speech source did not stop in time")
	}
}

// send delivers ev unless the run was cancelled.
func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
