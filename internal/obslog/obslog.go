// Package obslog sets up the zerolog logger the rest of the core uses for
// structured, leveled logging, adapted from the teacher pack's
// pkg/logger.Setup(env)/With() convention.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger for the given environment:
// "development" gets a pretty console writer at debug level, anything else
// gets JSON output at info level.
func Setup(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// With returns the global logger for use by core components.
func With() zerolog.Logger {
	return log.Logger
}

// Silent returns a logger with all output discarded, for tests and for
// callers of the core library who want to wire their own logger sink.
func Silent() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}
