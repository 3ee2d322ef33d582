package ecs

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
)

// anyStorage is the type-erased view of a Storage the world keeps in its
// registry. It exposes only what lifecycle and query code needs.
type anyStorage interface {
	ID() ComponentID
	Name() string
	Type() reflect.Type
	Len() int
	Contains(idx EntityIndex) bool
	Entities() []EntityIndex

	remove(idx EntityIndex) bool
	getAny(idx EntityIndex) (any, bool)
	insertAny(idx EntityIndex, v any) error
	clear()
	validate() error
}

// Storage is a sparse set holding every value of one component type.
//
// Values live packed in dense with no holes; denseToEntity records the owner
// of each slot and sparse maps an entity index to its slot, or -1.
// Removal swaps the last slot into the hole, so iteration order is not stable
// across removals and pointers into the storage are invalidated by any
// Insert or Remove.
type Storage[T any] struct {
	id   ComponentID
	name string
	typ  reflect.Type

	dense         []T
	denseToEntity []EntityIndex
	sparse        []int32
}

// NewStorage creates an empty storage able to address capacity entity indices.
func NewStorage[T any](capacity int) *Storage[T] {
	s := &Storage[T]{
		typ:    reflect.TypeFor[T](),
		sparse: make([]int32, capacity),
	}
	for i := range s.sparse {
		s.sparse[i] = -1
	}
	return s
}

// ID returns the component id the storage was registered under.
func (s *Storage[T]) ID() ComponentID {
	return s.id
}

// Name returns the registered component name.
func (s *Storage[T]) Name() string {
	return s.name
}

// Type returns the component's Go type.
func (s *Storage[T]) Type() reflect.Type {
	return s.typ
}

// Len returns the number of stored values.
func (s *Storage[T]) Len() int {
	return len(s.dense)
}

// Contains reports whether idx has a value.
func (s *Storage[T]) Contains(idx EntityIndex) bool {
	return int(idx) < len(s.sparse) && s.sparse[idx] >= 0
}

// Insert stores v for idx. An existing value is overwritten in place.
func (s *Storage[T]) Insert(idx EntityIndex, v T) {
	if slot := s.sparse[idx]; slot >= 0 {
		s.dense[slot] = v
		return
	}
	s.sparse[idx] = int32(len(s.dense))
	s.dense = append(s.dense, v)
	s.denseToEntity = append(s.denseToEntity, idx)
}

// Remove deletes the value for idx and returns it. Removing an absent value
// is a no-op reporting false.
func (s *Storage[T]) Remove(idx EntityIndex) (T, bool) {
	var zero T
	if !s.Contains(idx) {
		return zero, false
	}
	slot := s.sparse[idx]
	removed := s.dense[slot]

	last := int32(len(s.dense) - 1)
	if slot != last {
		moved := s.denseToEntity[last]
		s.dense[slot] = s.dense[last]
		s.denseToEntity[slot] = moved
		s.sparse[moved] = slot
	}
	// drop the reference held by the vacated slot
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.denseToEntity = s.denseToEntity[:last]
	s.sparse[idx] = -1
	return removed, true
}

// Get returns a copy of the value for idx.
func (s *Storage[T]) Get(idx EntityIndex) (T, bool) {
	if !s.Contains(idx) {
		var zero T
		return zero, false
	}
	return s.dense[s.sparse[idx]], true
}

// GetPtr returns a pointer to the stored value for idx, or nil. The pointer
// is valid until the next Insert or Remove on this storage.
func (s *Storage[T]) GetPtr(idx EntityIndex) *T {
	if !s.Contains(idx) {
		return nil
	}
	return &s.dense[s.sparse[idx]]
}

// All yields every (entity index, value pointer) pair in dense order.
func (s *Storage[T]) All() iter.Seq2[EntityIndex, *T] {
	return func(yield func(EntityIndex, *T) bool) {
		for i := 0; i < len(s.dense); i++ {
			if !yield(s.denseToEntity[i], &s.dense[i]) {
				return
			}
		}
	}
}

// Entities returns the owner of each dense slot. The slice is owned by the
// storage and must not be modified.
func (s *Storage[T]) Entities() []EntityIndex {
	return s.denseToEntity
}

// Values returns the packed values. The slice is owned by the storage.
func (s *Storage[T]) Values() []T {
	return s.dense
}

// Clear removes every value.
func (s *Storage[T]) Clear() {
	for _, idx := range s.denseToEntity {
		s.sparse[idx] = -1
	}
	clear(s.dense)
	s.dense = s.dense[:0]
	s.denseToEntity = s.denseToEntity[:0]
}

func (s *Storage[T]) remove(idx EntityIndex) bool {
	_, ok := s.Remove(idx)
	return ok
}

func (s *Storage[T]) getAny(idx EntityIndex) (any, bool) {
	v, ok := s.Get(idx)
	if !ok {
		return nil, false
	}
	return v, true
}

func (s *Storage[T]) insertAny(idx EntityIndex, v any) error {
	switch value := v.(type) {
	case T:
		s.Insert(idx, value)
	case *T:
		if value == nil {
			return eris.Wrapf(ErrTypeMismatch, "nil %s", s.typ)
		}
		s.Insert(idx, *value)
	default:
		return eris.Wrapf(ErrTypeMismatch, "%s wants %s, got %T", s.name, s.typ, v)
	}
	return nil
}

func (s *Storage[T]) clear() {
	s.Clear()
}

// validate checks that dense, denseToEntity and sparse agree.
func (s *Storage[T]) validate() error {
	if len(s.dense) != len(s.denseToEntity) {
		return eris.Errorf("storage %s: dense has %d values but %d owners", s.name, len(s.dense), len(s.denseToEntity))
	}
	for i, idx := range s.denseToEntity {
		if int(idx) >= len(s.sparse) {
			return eris.Errorf("storage %s: slot %d owned by out-of-range entity %d", s.name, i, idx)
		}
		if s.sparse[idx] != int32(i) {
			return eris.Errorf("storage %s: slot %d owned by entity %d but sparse points to %d", s.name, i, idx, s.sparse[idx])
		}
	}
	count := 0
	for idx, slot := range s.sparse {
		if slot < 0 {
			continue
		}
		count++
		if int(slot) >= len(s.denseToEntity) || s.denseToEntity[slot] != EntityIndex(idx) {
			return eris.Errorf("storage %s: entity %d points to slot %d it does not own", s.name, idx, slot)
		}
	}
	if count != len(s.dense) {
		return eris.Errorf("storage %s: %d sparse entries for %d values", s.name, count, len(s.dense))
	}
	return nil
}
