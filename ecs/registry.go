package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// componentRegistry maps component types and names to their storage.
// stores is indexed by ComponentID.
type componentRegistry struct {
	byType map[reflect.Type]ComponentID
	byName map[string]ComponentID
	stores []anyStorage
	limit  int
}

func newComponentRegistry(limit int) componentRegistry {
	return componentRegistry{
		byType: make(map[reflect.Type]ComponentID, limit),
		byName: make(map[string]ComponentID, limit),
		stores: make([]anyStorage, 0, limit),
		limit:  limit,
	}
}

func (r *componentRegistry) store(id ComponentID) (anyStorage, bool) {
	if int(id) >= len(r.stores) {
		return nil, false
	}
	return r.stores[id], true
}

// registered returns the signature of every registered component.
func (r *componentRegistry) registered() Signature {
	var s Signature
	for id := range r.stores {
		s.Set(ComponentID(id))
	}
	return s
}

// Component is a typed handle to a registered component type. Holding the
// handle skips the type lookup that the free functions Attach, Detach and Get
// perform on every call.
type Component[T any] struct {
	world *World
	store *Storage[T]
}

// ComponentInfo describes a registered component type.
type ComponentInfo struct {
	ID    ComponentID
	Name  string
	Type  reflect.Type
	Count int
}

// Register adds component type T to the world under name and returns its
// handle. Registering the same type again returns the existing handle as long
// as the name matches.
func Register[T any](w *World, name string) (Component[T], error) {
	if w == nil {
		return Component[T]{}, ErrNilWorld
	}
	typ := reflect.TypeFor[T]()
	if name == "" {
		name = typ.String()
	}

	if id, ok := w.components.byType[typ]; ok {
		store := w.components.stores[id].(*Storage[T])
		if store.name != name {
			return Component[T]{}, eris.Wrapf(ErrDuplicateComponent, "%s already registered as %q", typ, store.name)
		}
		return Component[T]{world: w, store: store}, nil
	}
	if id, ok := w.components.byName[name]; ok {
		return Component[T]{}, eris.Wrapf(ErrDuplicateComponent, "name %q already used by %s", name, w.components.stores[id].Type())
	}
	if len(w.components.stores) >= w.components.limit {
		return Component[T]{}, eris.Wrapf(ErrTooManyComponents, "cannot register %q: limit is %d", name, w.components.limit)
	}

	id := ComponentID(len(w.components.stores))
	store := NewStorage[T](w.entities.Cap())
	store.id = id
	store.name = name
	w.components.stores = append(w.components.stores, store)
	w.components.byType[typ] = id
	w.components.byName[name] = id

	w.logger.Debug().
		Int("component_id", int(id)).
		Str("component_name", name).
		Str("component_type", typ.String()).
		Msg("registered component")
	return Component[T]{world: w, store: store}, nil
}

// MustRegister is Register for startup code, where a registration failure is
// a configuration bug. It panics on error.
func MustRegister[T any](w *World, name string) Component[T] {
	c, err := Register[T](w, name)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the handle for an already registered T.
func Lookup[T any](w *World) (Component[T], error) {
	if w == nil {
		return Component[T]{}, ErrNilWorld
	}
	id, ok := w.components.byType[reflect.TypeFor[T]()]
	if !ok {
		return Component[T]{}, ErrUnknownComponent
	}
	return Component[T]{world: w, store: w.components.stores[id].(*Storage[T])}, nil
}

// Valid reports whether the handle came from Register or Lookup.
func (c Component[T]) Valid() bool {
	return c.store != nil
}

// ID returns the component's bit index.
func (c Component[T]) ID() ComponentID {
	return c.store.id
}

// Name returns the registered name.
func (c Component[T]) Name() string {
	return c.store.name
}

// Signature returns a signature with only this component's bit set.
func (c Component[T]) Signature() Signature {
	return SignatureOf(c.store.id)
}

// Storage exposes the underlying sparse set for tight iteration loops.
// Mutating it directly bypasses signature bookkeeping; use Attach and Detach
// for structural changes.
func (c Component[T]) Storage() *Storage[T] {
	return c.store
}

// Len returns how many entities currently have the component.
func (c Component[T]) Len() int {
	return c.store.Len()
}

// Attach sets the component on e, overwriting any existing value.
func (c Component[T]) Attach(e Entity, v T) error {
	idx, err := c.world.entities.resolve(e)
	if err != nil {
		return err
	}
	c.store.Insert(idx, v)
	sig := c.world.entities.signatureAt(idx)
	sig.Set(c.store.id)
	c.world.entities.setSignatureAt(idx, sig)
	return nil
}

// Detach removes the component from e and reports whether it was present.
func (c Component[T]) Detach(e Entity) (bool, error) {
	idx, err := c.world.entities.resolve(e)
	if err != nil {
		return false, err
	}
	if _, ok := c.store.Remove(idx); !ok {
		return false, nil
	}
	sig := c.world.entities.signatureAt(idx)
	sig.Unset(c.store.id)
	c.world.entities.setSignatureAt(idx, sig)
	return true, nil
}

// Get returns a pointer to e's component. The pointer is invalidated by the
// next structural change to this component type.
func (c Component[T]) Get(e Entity) (*T, error) {
	idx, err := c.world.entities.resolve(e)
	if err != nil {
		return nil, err
	}
	p := c.store.GetPtr(idx)
	if p == nil {
		return nil, ErrComponentNotFound
	}
	return p, nil
}

// Value returns a copy of e's component.
func (c Component[T]) Value(e Entity) (T, bool) {
	var zero T
	idx, err := c.world.entities.resolve(e)
	if err != nil {
		return zero, false
	}
	return c.store.Get(idx)
}

// Has reports whether the living entity e has the component.
func (c Component[T]) Has(e Entity) bool {
	idx, err := c.world.entities.resolve(e)
	if err != nil {
		return false
	}
	return c.store.Contains(idx)
}

// Entities returns a copy of every entity holding the component, in dense order.
func (c Component[T]) Entities() []Entity {
	out := make([]Entity, 0, c.store.Len())
	for _, idx := range c.store.Entities() {
		out = append(out, c.world.entities.handle(idx))
	}
	return out
}

// Each calls fn for every entity holding the component until fn returns false.
// The entity passed to fn may be destroyed or detached from inside fn.
func (c Component[T]) Each(fn func(Entity, *T) bool) {
	for i := c.store.Len() - 1; i >= 0; i-- {
		if i >= c.store.Len() {
			continue
		}
		idx := c.store.denseToEntity[i]
		if !fn(c.world.entities.handle(idx), &c.store.dense[i]) {
			return
		}
	}
}
