// Package logger provides process-wide logging for reporeader.
// Warnings and errors (skipped files, failed locations) are always written;
// debug and info messages only appear when verbose mode is enabled via the
// --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format  = FormatConsole
	output  io.Writer = os.Stderr
	base              = build()
)

// build creates the zerolog logger from the current settings (caller must hold lock).
func build() zerolog.Logger {
	w := output
	if format != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.TimeOnly,
			NoColor:    output != os.Stderr,
		}
	}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build()
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build()
}

// SetFormat selects console or JSON output. Unknown formats fall back to console.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatConsole
	}
	format = f
	base = build()
}

// With returns a child logger tagged with a component name.
func With(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", component).Logger()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Debug().Msg(fmt.Sprintf(format, args...))
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func Error(err error, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Error().Err(err).Msg(fmt.Sprintf(format, args...))
}
