package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes the root zerolog.Logger. 'devMode' enables
// human-readable console logging; 'level' is a zerolog level name
// ("debug", "info", ...) and falls back to info when unparsable.
func New(devMode bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if devMode {
		// Human-readable, colorful output for local development
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
	} else {
		// Efficient JSON output for production
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	return logger.Level(lvl)
}
