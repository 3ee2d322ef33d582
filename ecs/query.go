package ecs

import "iter"

// Signer is implemented by component handles.
type Signer interface {
	Signature() Signature
}

// Require combines the signatures of the given component handles.
func Require(components ...Signer) Signature {
	var sig Signature
	for _, c := range components {
		sig = sig.Union(c.Signature())
	}
	return sig
}

// Query yields every living entity whose signature contains required.
//
// The smallest storage named by required drives the iteration and each
// candidate is tested against its signature, so the cost is proportional to
// the rarest required component. Entities come out in reverse dense order
// of that storage, last slot first. That matches insertion order only until
// a removal swaps the last slot into the hole. An empty signature yields
// every living entity.
// A signature naming an unregistered component yields nothing.
//
// The yielded entity may be destroyed, or have components detached, from
// inside the loop. Other structural changes during iteration are not allowed.
func (w *World) Query(required Signature) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if required.IsEmpty() {
			for e := range w.entities.All() {
				if !yield(e) {
					return
				}
			}
			return
		}

		var driver anyStorage
		for id := range required.IDs() {
			store, ok := w.components.store(id)
			if !ok {
				return
			}
			if driver == nil || store.Len() < driver.Len() {
				driver = store
			}
		}

		for i := driver.Len() - 1; i >= 0; i-- {
			owners := driver.Entities()
			if i >= len(owners) {
				continue
			}
			idx := owners[i]
			if !w.entities.signatureAt(idx).Contains(required) {
				continue
			}
			if !yield(w.entities.handle(idx)) {
				return
			}
		}
	}
}

// QueryEntities collects Query into a new slice.
func (w *World) QueryEntities(required Signature) []Entity {
	var out []Entity
	for e := range w.Query(required) {
		out = append(out, e)
	}
	return out
}

// Count returns the number of entities matching required.
func (w *World) Count(required Signature) int {
	n := 0
	for range w.Query(required) {
		n++
	}
	return n
}

// First returns any one entity matching required.
func (w *World) First(required Signature) (Entity, bool) {
	for e := range w.Query(required) {
		return e, true
	}
	return 0, false
}
