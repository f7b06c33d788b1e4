package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a structured console logger with RFC3339 timestamps. Level
// defaults to info; VODCTL_LOG_LEVEL overrides it.
func New() zerolog.Logger {
	return NewWithOutput(os.Stderr)
}

func NewWithOutput(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("VODCTL_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
}
