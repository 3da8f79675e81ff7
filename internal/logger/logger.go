// Package logger wraps zerolog.Logger for dreamlock.
//
// Logger embeds zerolog.Logger so the full zerolog API is available on
// *Logger. Secrets (PINs, passwords, decrypted text) must never be logged.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

func init() {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"
}

// NewLogger builds a JSON logger writing to w with a "role" field, a
// timestamp and the calling function name on every entry.
func NewLogger(w io.Writer, role, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewFileLogger appends to the file at path, creating its directory when
// needed. It falls back to stderr if the file cannot be opened; the returned
// closer is then a no-op.
func NewFileLogger(path, role, level string) (*Logger, io.Closer) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err == nil {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err == nil {
			return NewLogger(f, role, level), f
		}
	}
	return NewLogger(os.Stderr, role, level), io.NopCloser(nil)
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// With returns a child logger carrying the component name.
func (l *Logger) With(component string) *Logger {
	return &Logger{l.Logger.With().Str("component", component).Logger()}
}
