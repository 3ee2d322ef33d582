package system

import (
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
)

// MovementSystem integrates Velocity into Transform once per frame. Entities
// with a RigidBody are left to the physics system.
type MovementSystem struct {
	set *component.Set
}

func NewMovementSystem(set *component.Set) *MovementSystem {
	return &MovementSystem{set: set}
}

func (s *MovementSystem) Update(w *ecs.World) error {
	if w == nil {
		return ecs.ErrNilWorld
	}

	for e := range w.Query(ecs.Require(s.set.Transform, s.set.Velocity)) {
		if s.set.RigidBody.Has(e) {
			continue
		}
		tr, err := s.set.Transform.Get(e)
		if err != nil {
			return err
		}
		vel, err := s.set.Velocity.Get(e)
		if err != nil {
			return err
		}
		tr.X += vel.X
		tr.Y += vel.Y
		tr.Rotation += vel.Angular
	}
	return nil
}
