package ecs

import (
	"math"

	"github.com/rotisserie/eris"
)

const (
	// DefaultMaxEntities is the entity table size used by DefaultConfig.
	DefaultMaxEntities = 100_000
	// DefaultMaxComponents is the component type limit used by DefaultConfig.
	DefaultMaxComponents = 32
)

// Config sizes a World. Both limits are fixed for the lifetime of the world so
// every table can be allocated once up front.
type Config struct {
	MaxEntities   int `yaml:"max_entities" config:"WATERDROP_MAX_ENTITIES"`
	MaxComponents int `yaml:"max_components" config:"WATERDROP_MAX_COMPONENTS"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxEntities:   DefaultMaxEntities,
		MaxComponents: DefaultMaxComponents,
	}
}

// Validate checks both limits.
func (c Config) Validate() error {
	if c.MaxEntities <= 0 || c.MaxEntities > math.MaxInt32 {
		return eris.Wrapf(ErrInvalidConfig, "max_entities must be in [1, %d], got %d", math.MaxInt32, c.MaxEntities)
	}
	if c.MaxComponents <= 0 || c.MaxComponents > MaxComponentTypes {
		return eris.Wrapf(ErrInvalidConfig, "max_components must be in [1, %d], got %d", MaxComponentTypes, c.MaxComponents)
	}
	return nil
}
