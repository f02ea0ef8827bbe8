// Package logging builds the leveled diagnostic loggers used by the server
// and the analysis endpoint.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "TODO_LOG_LEVEL"

// Options configures a logger.
type Options struct {
	Prefix string
	// Level is a level name such as "debug" or "warn". Defaults to info.
	Level string
	// Timestamps adds a time to every line.
	Timestamps bool
}

// New creates a logger writing to w. A nil w writes to stderr.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	levelName := opts.Level
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		levelName = env
	}
	level := log.InfoLevel
	if strings.TrimSpace(levelName) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(levelName)))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
		}
		level = parsed
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          opts.Prefix,
		Level:           level,
		ReportTimestamp: opts.Timestamps,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Std adapts logger for APIs that take a standard library logger, such as
// http.Server.ErrorLog. Lines are logged at error level.
func Std(logger *log.Logger) *stdlog.Logger {
	return logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})
}
