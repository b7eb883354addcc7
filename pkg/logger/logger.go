package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger for the given server mode.
// Debug mode gets a colored console writer at debug level; anything else
// writes JSON at info level for log shipping.
func Setup(mode string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if mode == "debug" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
