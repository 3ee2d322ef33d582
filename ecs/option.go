package ecs

import "github.com/rs/zerolog"

// Option configures a World at construction.
type Option func(*World)

// WithLogger sets the logger used for lifecycle and registration messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger.With().Str("module", "ecs").Logger()
	}
}
