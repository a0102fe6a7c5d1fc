// Package logger provides the process-wide leveled logger.
//
// Output goes to stderr so it never interleaves with command output or the
// TUI alternate screen. Debug logging is off unless enabled with SetVerbose.
package logger

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger()

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetVerbose toggles debug-level output.
func SetVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Debug logs a debug message with printf formatting.
func Debug(format string, args ...any) {
	log.Debug().Msg(fmt.Sprintf(format, args...))
}

// Info logs an informational message with printf formatting.
func Info(format string, args ...any) {
	log.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn logs a warning with printf formatting.
func Warn(format string, args ...any) {
	log.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs an error with printf formatting.
func Error(format string, args ...any) {
	log.Error().Msg(fmt.Sprintf(format, args...))
}
