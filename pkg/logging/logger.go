package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel overrides the configured log level
	EnvLogLevel = "LWSRECIPE_LOG_LEVEL"

	// EnvJSONLog switches to JSON output when set to "1"
	EnvJSONLog = "LWSRECIPE_JSON_LOG"

	// DefaultLevel is used when nothing else selects a level
	DefaultLevel = "warn"
)

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv(EnvJSONLog) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// ErrUnknownLevel is returned for a level name hclog does not recognise
var ErrUnknownLevel = errors.New("unknown log level")

// ResolveLevel picks the effective log level: debug flag, then environment, then configured value
func ResolveLevel(configured string, debug bool) (string, error) {
	level := DefaultLevel
	switch env := strings.TrimSpace(os.Getenv(EnvLogLevel)); {
	case debug:
		level = "debug"
	case env != "":
		level = env
	case configured != "":
		level = configured
	}
	if hclog.LevelFromString(level) == hclog.NoLevel {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return level, nil
}

// OrNull returns l, or a logger that discards everything when l is nil
func OrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}
