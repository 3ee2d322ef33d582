package system

import (
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
)

// TTLSystem decrements frame-based TTL components and destroys entities when
// the TTL reaches zero. Each expiry pushes an EventEntityExpired event.
type TTLSystem struct {
	set *component.Set
}

func NewTTLSystem(set *component.Set) *TTLSystem {
	return &TTLSystem{set: set}
}

func (s *TTLSystem) Update(w *ecs.World) error {
	if w == nil {
		return ecs.ErrNilWorld
	}

	var err error
	s.set.TTL.Each(func(e ecs.Entity, ttl *component.TTL) bool {
		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return true
			}
		}

		// TTL expired: destroy the entity
		w.Events().Push(ecs.Event{Type: ecs.EventEntityExpired, Entity: e})
		err = w.DestroyEntity(e)
		return err == nil
	})
	return err
}
