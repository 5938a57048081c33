// Package log provides named, leveled loggers backed by go-logging. All
// loggers share one sink and one verbosity.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to SetLevel.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levels = []struct {
	name    string
	backend logging.Level
}{
	Debug:   {"debug", logging.DEBUG},
	Info:    {"info", logging.INFO},
	Notice:  {"notice", logging.NOTICE},
	Warning: {"warning", logging.WARNING},
	Error:   {"error", logging.ERROR},
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levels[l].name
}

// ParseLevel maps a level name (case-insensitive) to its Level.
func ParseLevel(name string) (Level, error) {
	for l, def := range levels {
		if strings.EqualFold(name, def.name) {
			return Level(l), nil
		}
	}
	return Error, fmt.Errorf("unknown log level %q", name)
}

// Terminals get colored level tags; files and buffers get plain text.
var (
	colorFormat = logging.MustStringFormatter(
		`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
	)
	plainFormat = logging.MustStringFormatter(
		`[%{time:15:04:05.000}] [%{module}] [%{level}] %{message}`,
	)
)

var (
	leveledBackend logging.LeveledBackend
	current        = Notice
)

// Logger is the subset of the go-logging API used across the console.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all loggers to sink, keeping the current verbosity.
func SetSink(sink io.Writer) {
	format := plainFormat
	if isTerminal(sink) {
		format = colorFormat
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveledBackend = logging.AddModuleLevel(backend)
	logging.SetBackend(leveledBackend)
	SetLevel(current)
}

// SetLevel sets the verbosity of all loggers. Unknown levels behave as Error.
func SetLevel(level Level) {
	if level < Debug || level > Error {
		level = Error
	}
	current = level
	leveledBackend.SetLevel(levels[level].backend, "")
}

// CurrentLevel reports the verbosity last passed to SetLevel.
func CurrentLevel() Level {
	return current
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func init() {
	SetSink(os.Stderr)
}
