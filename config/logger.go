package config

import (
	"io"
	"os"
	"strings"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// NewLogger builds the application logger writing to out, or stderr when out
// is nil.
func NewLogger(cfg LogConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, eris.Wrapf(ecs.ErrInvalidConfig, "log level %q", s)
	}
	return level, nil
}

// NewStatsd returns a client for cfg.Address, or a no-op client when metrics
// are disabled.
func NewStatsd(cfg StatsdConfig) (ddstatsd.ClientInterface, error) {
	if cfg.Address == "" {
		return &ddstatsd.NoOpClient{}, nil
	}
	client, err := ddstatsd.New(cfg.Address,
		ddstatsd.WithNamespace("waterdrop."),
		ddstatsd.WithTags(cfg.Tags),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "statsd client for %s", cfg.Address)
	}
	return client, nil
}
