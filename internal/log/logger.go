// Package log hands out named go-logging loggers that share one output.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

// Level orders verbosity from Debug (everything) to Error (failures only).
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// DefaultLevel is used until SetLevel is called and after every SetSink.
const DefaultLevel = Notice

var levelNames = [...]string{"debug", "info", "notice", "warning", "error"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "unknown"
	}
	return levelNames[l]
}

// Verbosity maps the -v and -vv switches to a level; -vv wins.
func Verbosity(verbose, veryVerbose bool) Level {
	switch {
	case veryVerbose:
		return Debug
	case verbose:
		return Info
	}
	return DefaultLevel
}

// Logger is what packages log through. *logging.Logger satisfies it.
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

var lineFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s} [%{module}]%{color:reset} %{message}`,
)

var (
	mu      sync.Mutex
	backend logging.LeveledBackend
)

// New returns the logger for module. The module name is printed with
// every line.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends all loggers to w and restores DefaultLevel.
func SetSink(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	formatted := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), lineFormat)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(goLevel(DefaultLevel), "")
	logging.SetBackend(backend)
}

// SetLevel changes the verbosity of every module.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	backend.SetLevel(goLevel(level), "")
}

// IsEnabled reports whether a message at level would be written.
func IsEnabled(level Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return backend.IsEnabledFor(goLevel(level), "")
}

func goLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
}
