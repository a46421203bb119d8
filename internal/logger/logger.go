// Package logger wraps zerolog behind the small set of leveled helpers
// used across the service.
package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	// Sensible default so helpers work before InitLogging runs.
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// InitLogging directs log output to the given file path, falling back to
// a console writer on stderr when the path is empty or cannot be opened.
func InitLogging(path string) {
	if path == "" {
		return
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to open log file, keeping console output")
		return
	}
	log = zerolog.New(file).With().Timestamp().Logger()
}

// Logger returns the configured zerolog logger for components that accept
// one directly.
func Logger() zerolog.Logger {
	return log
}

func DebugLog(_ context.Context, format string, args ...interface{}) {
	log.Debug().Msg(fmt.Sprintf(format, args...))
}

func InfoLog(_ context.Context, format string, args ...interface{}) {
	log.Info().Msg(fmt.Sprintf(format, args...))
}

func WarnLog(_ context.Context, format string, args ...interface{}) {
	log.Warn().Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(_ context.Context, format string, args ...interface{}) {
	log.Error().Msg(fmt.Sprintf(format, args...))
}
