package system

import (
	"github.com/milk9111/waterdrop/common"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
)

// CameraSystem keeps every camera's aspect ratio in step with the viewport
// and eases cameras with a TargetName toward the labelled entity.
type CameraSystem struct {
	set     *component.Set
	targets map[ecs.Entity]ecs.Entity

	viewW, viewH float64
}

func NewCameraSystem(set *component.Set, viewW, viewH float64) *CameraSystem {
	return &CameraSystem{
		set:     set,
		targets: make(map[ecs.Entity]ecs.Entity),
		viewW:   viewW,
		viewH:   viewH,
	}
}

// SetViewport updates the size used for the aspect ratio.
func (cs *CameraSystem) SetViewport(width, height float64) {
	cs.viewW, cs.viewH = width, height
}

func (cs *CameraSystem) Update(w *ecs.World) error {
	if w == nil {
		return ecs.ErrNilWorld
	}

	for camEntity := range cs.targets {
		if !w.IsAlive(camEntity) {
			delete(cs.targets, camEntity)
		}
	}

	for e := range w.Query(ecs.Require(cs.set.Camera, cs.set.Transform)) {
		cam, err := cs.set.Camera.Get(e)
		if err != nil {
			return err
		}
		if cs.viewW > 0 && cs.viewH > 0 {
			cam.Aspect = cs.viewW / cs.viewH
		}
		if cam.TargetName == "" {
			continue
		}

		target, ok := cs.targets[e]
		if !ok || !w.IsAlive(target) {
			target, ok = cs.set.FindByLabel(cam.TargetName)
			if !ok {
				continue
			}
			cs.targets[e] = target
		}
		targetTransform, ok := cs.set.Transform.Value(target)
		if !ok {
			continue
		}

		camTransform, err := cs.set.Transform.Get(e)
		if err != nil {
			return err
		}
		t := cam.Smoothness
		if t <= 0 {
			t = 1
		}
		t = common.Clamp(t, 0, 1)
		camTransform.X = common.Lerp(camTransform.X, targetTransform.X, t)
		camTransform.Y = common.Lerp(camTransform.Y, targetTransform.Y, t)
	}
	return nil
}
