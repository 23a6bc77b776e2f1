package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the application-wide logger. Init replaces it with a configured
// instance; the zero value writes JSON to stdout so packages can log before
// Init runs (tests mostly).
var Log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger for the given environment. Development
// gets human-readable console output, everything else structured JSON.
func Init(environment string) {
	if environment == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
		Log = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	Log = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}
