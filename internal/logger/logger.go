// Package logger configures zerolog for the bot binaries.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to out, sets the global level and replaces
// log.Logger so package-level loggers pick it up.
func New(level, format string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %w", err)
	}
	if out == nil {
		out = os.Stdout
	}

	switch format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	l := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = l
	return l, nil
}

// Sink forwards engine messages to a zerolog logger at info level.
type Sink struct {
	logger zerolog.Logger
}

// NewSink tags messages with component.
func NewSink(l zerolog.Logger, component string) *Sink {
	return &Sink{logger: l.With().Str("component", component).Logger()}
}

// Log writes one message.
func (s *Sink) Log(msg string) {
	s.logger.Info().Msg(msg)
}
