package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
)

const (
	// DefaultGravity is in world units per frame squared.
	DefaultGravity = 0.5

	defaultBodySize = 32
)

// PhysicsSystem mirrors RigidBody entities into a Chipmunk2D space, steps it
// and writes the simulated positions back to Transform. Transform X and Y are
// the body's center.
type PhysicsSystem struct {
	set   *component.Set
	space *cp.Space
	step  float64

	bodies map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

// NewPhysicsSystem creates a system with its own space. Every Update advances
// the space by one step of dt.
func NewPhysicsSystem(set *component.Set, gravity, dt float64) *PhysicsSystem {
	if dt <= 0 {
		dt = 1.0
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	return &PhysicsSystem{
		set:    set,
		space:  space,
		step:   dt,
		bodies: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Bodies returns how many entities currently have a body in the space.
func (ps *PhysicsSystem) Bodies() int {
	return len(ps.bodies)
}

func (ps *PhysicsSystem) Update(w *ecs.World) error {
	if w == nil {
		return ecs.ErrNilWorld
	}

	ps.cleanupEntities(w)
	if err := ps.syncEntities(w); err != nil {
		return err
	}

	ps.space.Step(ps.step)

	return ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) error {
	for e := range w.Query(ecs.Require(ps.set.RigidBody, ps.set.Transform)) {
		if _, ok := ps.bodies[e]; ok {
			continue
		}
		bodyComp, err := ps.set.RigidBody.Get(e)
		if err != nil {
			return err
		}
		transform, ok := ps.set.Transform.Value(e)
		if !ok {
			continue
		}

		info := ps.createBodyInfo(transform, *bodyComp)
		if vel, ok := ps.set.Velocity.Value(e); ok && !info.static {
			info.body.SetVelocity(vel.X, vel.Y)
			info.body.SetAngularVelocity(vel.Angular)
		}
		ps.bodies[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	}
	return nil
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.RigidBody) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	radius := bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width = defaultBodySize
		height = defaultBodySize
	}

	center := cp.Vector{X: transform.X, Y: transform.Y}
	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, center)
		} else {
			bb := cp.BB{L: center.X - width/2, B: center.Y - height/2, R: center.X + width/2, T: center.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.shape = shape
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	var moment float64
	if radius > 0 {
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		moment = cp.MomentForBox(mass, width, height)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(center)
	body.SetAngle(transform.Rotation)

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shape = shape
	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) error {
	for e, info := range ps.bodies {
		if info.static {
			continue
		}
		transform, err := ps.set.Transform.Get(e)
		if err != nil {
			return err
		}
		pos := info.body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = info.body.Angle()

		if vel, err := ps.set.Velocity.Get(e); err == nil {
			v := info.body.Velocity()
			vel.X, vel.Y = v.X, v.Y
			vel.Angular = info.body.AngularVelocity()
		}
	}
	return nil
}

// cleanupEntities removes bodies whose entity died, lost its RigidBody or
// Transform, or had its RigidBody replaced by a new Attach. Replaced bodies
// are rebuilt by syncEntities in the same frame.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.bodies {
		rb, err := ps.set.RigidBody.Get(e)
		if err == nil && ps.set.Transform.Has(e) && rb.Body == info.body && rb.Shape == info.shape {
			continue
		}
		ps.space.RemoveShape(info.shape)
		if !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.bodies, e)
	}
}
