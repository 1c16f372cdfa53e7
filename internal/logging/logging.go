package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// levelFor maps a -v count to a zerolog level.
func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Setup directs all logging to w as JSON lines. The TUI passes its log file
// here; while bubbletea owns the terminal nothing may write to stdout or
// stderr.
func Setup(verbosity int, w io.Writer) {
	log.Logger = zerolog.New(w).Level(levelFor(verbosity)).With().Timestamp().Logger()
}

// SetupConsole directs logging to stderr in human-readable form. Used by the
// CLI subcommands, which never start the TUI.
func SetupConsole(verbosity int) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(output).Level(levelFor(verbosity)).With().Timestamp().Logger()
}

// Discard silences all logging. Tests use this to keep output clean.
func Discard() {
	log.Logger = zerolog.New(io.Discard)
}

// GetLogger returns a logger tagged with a component name, e.g. "actions"
// or "keymap". Call it where the logging happens; the returned logger
// snapshots the current global configuration.
func GetLogger(component string) *zerolog.Logger {
	logger := log.With().Str("component", component).Logger()
	return &logger
}
