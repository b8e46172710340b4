package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// configureLogging sets up zerolog with a console writer on w at the given
// level.
func configureLogging(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	})
	zerolog.SetGlobalLevel(lvl)
	return nil
}
