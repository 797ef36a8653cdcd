// Package logger wraps zerolog.Logger with the constructors mkgitbranch uses.
//
// The form owns the terminal while it runs, so interactive sessions log to a
// file and non-interactive runs log to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available on *Logger.
type Logger struct {
	zerolog.Logger
}

// New returns a logger writing human-readable lines to w. Debug output is
// only emitted when debug is true.
func New(w io.Writer, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	l := zerolog.New(out).Level(level).With().
		Str("app", "mkgitbranch").
		Timestamp().
		Logger()

	return &Logger{l}
}

// NewFile opens (or creates) path for appending and returns a JSON logger on
// it together with the file so the caller can close it. When path is empty a
// file under the user cache directory is used. If the file cannot be opened
// the logger discards output rather than writing over the terminal.
func NewFile(path string, debug bool) (*Logger, io.Closer) {
	if path == "" {
		path = DefaultFilePath()
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Nop(), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Nop(), io.NopCloser(nil)
	}

	l := zerolog.New(f).Level(level).With().
		Str("app", "mkgitbranch").
		Timestamp().
		Logger()

	return &Logger{l}, f
}

// DefaultFilePath is where interactive sessions log when no --log-file is given.
func DefaultFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "mkgitbranch", "mkgitbranch.log")
}

// Nop returns a logger that discards everything. Used by tests and as the
// zero value for optional logger fields.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Named returns a child logger carrying component=name.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{l.Logger.With().Str("component", name).Logger()}
}

// FilterEnv keeps PATH and GIT_* entries of a KEY=VALUE environment so command
// environments can be logged without leaking unrelated secrets.
func FilterEnv(environ []string) []string {
	var out []string
	for _, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") || strings.HasPrefix(kv, "GIT_") {
			out = append(out, kv)
		}
	}
	return out
}
