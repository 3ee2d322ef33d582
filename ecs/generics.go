package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Attach sets component T on e. T must have been registered.
func Attach[T any](w *World, e Entity, value T) error {
	c, err := Lookup[T](w)
	if err != nil {
		return eris.Wrapf(err, "attach %s", reflect.TypeFor[T]())
	}
	return c.Attach(e, value)
}

// Detach removes component T from e and reports whether it was present.
func Detach[T any](w *World, e Entity) (bool, error) {
	c, err := Lookup[T](w)
	if err != nil {
		return false, eris.Wrapf(err, "detach %s", reflect.TypeFor[T]())
	}
	return c.Detach(e)
}

// Get returns a pointer to e's component T.
func Get[T any](w *World, e Entity) (*T, error) {
	c, err := Lookup[T](w)
	if err != nil {
		return nil, eris.Wrapf(err, "get %s", reflect.TypeFor[T]())
	}
	return c.Get(e)
}

// Has reports whether e is alive and has component T.
func Has[T any](w *World, e Entity) bool {
	c, err := Lookup[T](w)
	if err != nil {
		return false
	}
	return c.Has(e)
}
