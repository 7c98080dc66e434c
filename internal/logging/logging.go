package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// FromEnv returns a file-backed logger when DOST_LOG names a path, else a
// disabled logger. The TUI owns stdout, so logs never go there.
func FromEnv() zerolog.Logger {
	path := os.Getenv("DOST_LOG")
	if path == "" {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop()
	}
	return zerolog.New(f).With().Timestamp().Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
