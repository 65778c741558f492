package logutils

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Setup replaces the global logger.
func Setup(w io.Writer, format, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "parse log level %q", level)
	}

	out := w
	switch format {
	case FormatConsole:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return errors.Errorf("unknown log format %q", format)
	}

	log.Logger = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("module", "dbfarmer").
		Logger()
	return nil
}
