package speech

import (
	"time"

	"github.com/charmbracelet/log"
)

// New picks the configured source. A recognizer command wins over a script;
// with neither configured the session gets an Unavailable source.
func New(command, script string, interval time.Duration, logger *log.Logger) (Source, error) {
	switch {
	case command != "":
		return NewCommandSource(command, logger)
	case script != "":
		return NewScriptSource(script, interval), nil
	default:
		return Unavailable{}, nil
	}
}
