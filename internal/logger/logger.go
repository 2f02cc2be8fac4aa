package logger

import (
	"io"
	"log"
	"os"
)

// Logger is the logging contract used by library packages.
// Implementations must be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// StdLogger wraps Go's standard logger.
type StdLogger struct {
	logger *log.Logger
	debug  bool
}

// New creates a StdLogger writing to w. Debug lines are dropped unless verbose is set.
func New(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{
		logger: log.New(w, "", log.LstdFlags),
		debug:  verbose,
	}
}

func (l *StdLogger) Info(msg string, args ...any) {
	l.logger.Printf("[INFO] "+msg, args...)
}

func (l *StdLogger) Warn(msg string, args ...any) {
	l.logger.Printf("[WARN] "+msg, args...)
}

func (l *StdLogger) Error(msg string, args ...any) {
	l.logger.Printf("[ERROR] "+msg, args...)
}

func (l *StdLogger) Debug(msg string, args ...any) {
	if !l.debug {
		return
	}
	l.logger.Printf("[DEBUG] "+msg, args...)
}

// Default writes to stderr so command output on stdout stays clean.
var Default Logger = New(os.Stderr, false)
