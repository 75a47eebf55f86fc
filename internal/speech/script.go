package speech

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultScriptInterval is the pause between replayed script lines.
const DefaultScriptInterval = 700 * time.Millisecond

// ScriptSource replays a prepared transcript, one protocol line per interval.
// Lines starting with '#' are comments.
type ScriptSource struct {
	path     string
	interval time.Duration

	stream
}

// NewScriptSource returns a source that replays the script at path.
func NewScriptSource(path string, interval time.Duration) *ScriptSource {
	if interval <= 0 {
		interval = DefaultScriptInterval
	}
	return &ScriptSource{path: path, interval: interval}
}

// Start reads the script and begins replaying it.
func (s *ScriptSource) Start(ctx context.Context) (<-chan Event, error) {
	script, err := LoadScript(s.path)
	if err != nil {
		return nil, err
	}
	runCtx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	events := make(chan Event, 1)
	go func() {
		defer close(events)
		defer s.finish()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for _, ev := range script {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
			}
			if !send(runCtx, events, ev) {
				return
			}
		}
		send(runCtx, events, Event{Kind: KindEnd})
	}()
	return events, nil
}

// Stop halts the replay.
func (s *ScriptSource) Stop() error {
	return s.stop()
}

// LoadScript parses a script file into events.
func LoadScript(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open speech script: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only script.
			_ = cerr
		}
	}()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if ev, ok := ParseLine(line); ok {
			events = append(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read speech script: %w", err)
	}
	return events, nil
}
