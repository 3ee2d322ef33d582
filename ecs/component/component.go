// Package component holds the standard component payloads and registers them
// with a world under stable names.
package component

import (
	"github.com/milk9111/waterdrop/ecs"
)

// Registered names. Prefab files use the same keys under components:.
const (
	TransformName = "transform"
	VelocityName  = "velocity"
	CameraName    = "camera"
	LabelName     = "label"
	RenderName    = "render"
	RigidBodyName = "rigid_body"
	ScriptName    = "script"
	TTLName       = "ttl"
)

// Set holds a handle for every standard component of one world.
type Set struct {
	Transform ecs.Component[Transform]
	Velocity  ecs.Component[Velocity]
	Camera    ecs.Component[Camera]
	Label     ecs.Component[Label]
	Render    ecs.Component[Render]
	RigidBody ecs.Component[RigidBody]
	Script    ecs.Component[Script]
	TTL       ecs.Component[TTL]
}

// Register registers the standard components with w. Calling it twice on the
// same world returns handles to the same storages.
func Register(w *ecs.World) (*Set, error) {
	var (
		s   Set
		err error
	)
	if s.Transform, err = ecs.Register[Transform](w, TransformName); err != nil {
		return nil, err
	}
	if s.Velocity, err = ecs.Register[Velocity](w, VelocityName); err != nil {
		return nil, err
	}
	if s.Camera, err = ecs.Register[Camera](w, CameraName); err != nil {
		return nil, err
	}
	if s.Label, err = ecs.Register[Label](w, LabelName); err != nil {
		return nil, err
	}
	if s.Render, err = ecs.Register[Render](w, RenderName); err != nil {
		return nil, err
	}
	if s.RigidBody, err = ecs.Register[RigidBody](w, RigidBodyName); err != nil {
		return nil, err
	}
	if s.Script, err = ecs.Register[Script](w, ScriptName); err != nil {
		return nil, err
	}
	if s.TTL, err = ecs.Register[TTL](w, TTLName); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByLabel returns the first living entity whose label is name.
func (s *Set) FindByLabel(name string) (ecs.Entity, bool) {
	var (
		found ecs.Entity
		ok    bool
	)
	s.Label.Each(func(e ecs.Entity, l *Label) bool {
		if l.Name == name {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}
