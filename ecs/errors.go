package ecs

import "errors"

var (
	// ErrCapacityExceeded is returned by CreateEntity when every entity slot is in use.
	ErrCapacityExceeded = errors.New("ecs: entity capacity exceeded")
	// ErrStaleEntity is returned when an entity handle refers to a destroyed or
	// never-created entity.
	ErrStaleEntity = errors.New("ecs: stale entity")
	// ErrUnknownComponent is returned when a component type was never registered.
	ErrUnknownComponent = errors.New("ecs: unknown component type")
	// ErrComponentNotFound is returned when a living entity lacks the requested component.
	ErrComponentNotFound = errors.New("ecs: component not found on entity")
	// ErrTooManyComponents is returned when registration would exceed the configured limit.
	ErrTooManyComponents = errors.New("ecs: too many component types")
	// ErrDuplicateComponent is returned when a component name is reused for a different type.
	ErrDuplicateComponent = errors.New("ecs: duplicate component name")
	// ErrInvalidConfig is returned by NewWorld for out-of-range configuration.
	ErrInvalidConfig = errors.New("ecs: invalid config")
	// ErrNilWorld is returned by helpers handed a nil world.
	ErrNilWorld = errors.New("ecs: world is nil")
	// ErrTypeMismatch is returned when a type-erased value does not match the storage type.
	ErrTypeMismatch = errors.New("ecs: component value type mismatch")
)
