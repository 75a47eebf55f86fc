package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	// maxLineSize bounds a single protocol line on stdout or stderr.
	maxLineSize = 1 << 20
	// waitDelay is how long the pipes stay open after the recognizer is killed.
	waitDelay = 500 * time.Millisecond
)

// CommandSource runs an external recognizer and reads the line protocol from
// its standard output. Standard error is forwarded to the logger.
//
// The recognizer runs in its own process group so that stopping it also
// kills any helpers a wrapper script spawned.
type CommandSource struct {
	name    string
	args    []string
	logger  *log.Logger
	maxLine int

	stream
}

// NewCommandSource parses command into an executable and its arguments.
func NewCommandSource(command string, logger *log.Logger) (*CommandSource, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: speech command is empty", ErrUnsupported)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CommandSource{
		name:    parts[0],
		args:    parts[1:],
		logger:  logger.WithPrefix("speech"),
		maxLine: maxLineSize,
	}, nil
}

// Start launches the recognizer process.
func (c *CommandSource) Start(ctx context.Context) (<-chan Event, error) {
	path, err := exec.LookPath(c.name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	runCtx, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}

	// procCtx is also cancelled when stdout turns unreadable.
	procCtx, kill := context.WithCancel(runCtx)
	cmd := exec.CommandContext(procCtx, path, c.args...)
	configureProcess(cmd)
	cmd.WaitDelay = waitDelay
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		kill()
		c.finish()
		return nil, fmt.Errorf("failed to open recognizer stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		kill()
		c.finish()
		return nil, fmt.Errorf("failed to open recognizer stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		kill()
		c.finish()
		return nil, fmt.Errorf("failed to start recognizer: %w", err)
	}
	// A helper that escaped the process group may still hold the pipes open.
	context.AfterFunc(procCtx, func() {
		time.AfterFunc(waitDelay, func() {
			_ = stdout.Close()
			_ = stderr.Close()
		})
	})
	c.logger.Debug("recognizer started", "cmd", c.name, "pid", cmd.Process.Pid)

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer c.finish()
		defer kill()

		var g errgroup.Group
		g.Go(func() error {
			err := readEvents(runCtx, stdout, events, c.maxLine)
			if err != nil {
				kill()
			}
			return err
		})
		g.Go(func() error {
			return c.forwardStderr(stderr)
		})
		readErr := g.Wait()
		waitErr := cmd.Wait()

		if c.wasStopped() {
			c.logger.Debug("recognizer stopped", "cmd", c.name)
			return
		}
		switch {
		case readErr != nil:
			c.logger.Warn("failed to read recognizer output", "err", readErr)
			send(runCtx, events, Event{Kind: KindError, Code: CodeReadFailed})
		case waitErr != nil:
			c.logger.Warn("recognizer exited", "cmd", c.name, "err", waitErr)
			send(runCtx, events, Event{Kind: KindError, Code: CodeProcessExit})
		}
		send(runCtx, events, Event{Kind: KindEnd})
	}()
	return events, nil
}

// Stop kills the recognizer if it is running.
func (c *CommandSource) Stop() error {
	return c.stop()
}

func (c *CommandSource) forwardStderr(r io.Reader) error {
	scanner := newLineScanner(r, c.maxLine)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			c.logger.Debug("recognizer", "stderr", line)
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Debug("recognizer stderr unreadable", "err", err)
		// Diagnostics are best effort; keep the pipe empty.
		_, _ = io.Copy(io.Discard, r)
	}
	return nil
}

func newLineScanner(r io.Reader, maxLine int) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(bufio.MaxScanTokenSize, maxLine)), maxLine)
	return scanner
}

func readEvents(ctx context.Context, r io.Reader, events chan<- Event, maxLine int) error {
	scanner := newLineScanner(r, maxLine)
	for scanner.Scan() {
		ev, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		// Keep draining after a stop so the process never blocks on a full pipe.
		send(ctx, events, ev)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
