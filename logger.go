package hashedwheel

import (
	"bytes"
	"io"
	"log"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger used by the wheel. Any logiface backend
// (stumpy, zerolog, logrus, slog) can be converted to it with its Logger method.
type Logger = logiface.Logger[logiface.Event]

// defaultLogger writes nothing.
var defaultLogger *Logger

// NewJSONLogger returns a Logger writing one JSON object per line to w,
// dropping events less severe than level.
func NewJSONLogger(w io.Writer, level logiface.Level) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// LoggerFunc is a bridge between Logger and any Printf-style logger.
type LoggerFunc func(string, ...any)

// Write implements io.Writer, emitting each JSON line through f.
func (f LoggerFunc) Write(p []byte) (int, error) {
	f("%s", bytes.TrimRight(p, "\n"))
	return len(p), nil
}

// NewPrintfLogger returns a Logger that formats events as JSON and passes
// each line to f.
func NewPrintfLogger(f LoggerFunc, level logiface.Level) *Logger {
	return NewJSONLogger(f, level)
}

// Printf is a logger which wraps log.Printf, reporting errors and warnings.
var Printf = NewPrintfLogger(log.Printf, logiface.LevelWarning)
