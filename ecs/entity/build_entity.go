package entity

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
	"github.com/milk9111/waterdrop/prefabs"
)

type buildContext struct {
	PrefabPath string
	Loader     *prefabs.Loader
}

// componentBuildFn decodes one prefab component entry into the value stored
// under the same registered name.
type componentBuildFn func(raw any, ctx *buildContext) (any, error)

var componentRegistry = map[string]componentBuildFn{
	component.TransformName: buildTransform,
	component.VelocityName:  buildVelocity,
	component.CameraName:    buildCamera,
	component.LabelName:     buildLabel,
	component.RenderName:    buildRender,
	component.RigidBodyName: buildRigidBody,
	component.ScriptName:    buildScript,
	component.TTLName:       buildTTL,
}

// componentBuildOrder fixes attach order so builds are deterministic.
var componentBuildOrder = []string{
	component.LabelName,
	component.TransformName,
	component.VelocityName,
	component.RenderName,
	component.RigidBodyName,
	component.CameraName,
	component.ScriptName,
	component.TTLName,
}

var defaultRenderColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// BuildPrefab loads prefabPath through l and builds it.
func BuildPrefab(w *ecs.World, set *component.Set, l *prefabs.Loader, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: %w", ecs.ErrNilWorld)
	}
	spec, err := prefabs.LoadEntityBuildSpec(l, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return build(w, set, spec, &buildContext{PrefabPath: prefabPath, Loader: l})
}

// BuildEntity creates an entity from spec. Components are attached in a fixed
// order; any failure destroys the partly built entity. A spec Name with no
// label component becomes the entity's Label.
func BuildEntity(w *ecs.World, set *component.Set, spec prefabs.EntityBuildSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: %w", ecs.ErrNilWorld)
	}
	return build(w, set, spec, &buildContext{PrefabPath: spec.Name, Loader: prefabs.NewLoader("")})
}

func build(w *ecs.World, set *component.Set, spec prefabs.EntityBuildSpec, ctx *buildContext) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", ctx.PrefabPath)
	}

	e, err := w.CreateEntity()
	if err != nil {
		return 0, fmt.Errorf("build entity: %q: %w", ctx.PrefabPath, err)
	}

	fail := func(err error) (ecs.Entity, error) {
		return 0, errors.Join(err, w.DestroyEntity(e))
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := attach(w, e, name, raw, ctx); err != nil {
			return fail(err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		return fail(fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, names[0]))
	}

	if spec.Name != "" && !set.Label.Has(e) {
		if err := set.Label.Attach(e, component.Label{Name: spec.Name}); err != nil {
			return fail(err)
		}
	}
	return e, nil
}

func attach(w *ecs.World, e ecs.Entity, name string, raw any, ctx *buildContext) error {
	builder, ok := componentRegistry[name]
	if !ok {
		return fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, name)
	}
	value, err := builder(raw, ctx)
	if err != nil {
		return fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
	}
	if err := w.AttachAny(e, name, value); err != nil {
		return fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
	}
	return nil
}

// SetEntityTransform moves e, creating a unit-scale Transform if it has none.
func SetEntityTransform(set *component.Set, e ecs.Entity, x, y float64) error {
	t, ok := set.Transform.Value(e)
	if !ok {
		t = component.NewTransform(0, 0)
	}
	t.X = x
	t.Y = y
	return set.Transform.Attach(e, t)
}

type transformSpec = prefabs.TransformComponentSpec

func buildTransform(raw any, _ *buildContext) (any, error) {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Z:        spec.Z,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	}, nil
}

type velocitySpec = prefabs.VelocityComponentSpec

func buildVelocity(raw any, _ *buildContext) (any, error) {
	spec, err := prefabs.DecodeComponentSpec[velocitySpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode velocity spec: %w", err)
	}
	return component.Velocity{X: spec.X, Y: spec.Y, Angular: spec.Angular}, nil
}

type cameraSpec = prefabs.CameraComponentSpec

func buildCamera(raw any, _ *buildContext) (any, error) {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode camera spec: %w", err)
	}
	cam := component.DefaultCamera()
	cam.TargetName = spec.TargetName
	cam.Active = !spec.Inactive
	if spec.Zoom > 0 {
		cam.Zoom = spec.Zoom
	}
	if spec.Smoothness > 0 {
		cam.Smoothness = spec.Smoothness
	}
	if spec.FovY > 0 {
		cam.FovY = spec.FovY
	}
	if spec.ZNear > 0 {
		cam.ZNear = spec.ZNear
	}
	if spec.ZFar > 0 {
		cam.ZFar = spec.ZFar
	}
	if cam.ZFar <= cam.ZNear {
		return nil, fmt.Errorf("camera zfar %v must exceed znear %v", cam.ZFar, cam.ZNear)
	}
	return cam, nil
}

func buildLabel(raw any, _ *buildContext) (any, error) {
	// a bare string is shorthand for {name: ...}
	if s, ok := raw.(string); ok {
		return component.Label{Name: s}, nil
	}
	spec, err := prefabs.DecodeComponentSpec[prefabs.LabelComponentSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode label spec: %w", err)
	}
	return component.Label{Name: spec.Name}, nil
}

type renderSpec = prefabs.RenderComponentSpec

func buildRender(raw any, _ *buildContext) (any, error) {
	spec, err := prefabs.DecodeComponentSpec[renderSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode render spec: %w", err)
	}
	if spec.Width < 0 || spec.Height < 0 {
		return nil, fmt.Errorf("render size must not be negative")
	}
	return component.Render{
		Model:  spec.Model,
		Color:  spec.Color.NRGBA(defaultRenderColor),
		Width:  spec.Width,
		Height: spec.Height,
		Layer:  spec.Layer,
		Static: spec.Static,
		Hidden: spec.Hidden,
	}, nil
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func buildRigidBody(raw any, _ *buildContext) (any, error) {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode rigid body spec: %w", err)
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}
	return component.RigidBody{
		Width:      spec.Width,
		Height:     spec.Height,
		Radius:     spec.Radius,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
		Static:     spec.Static,
	}, nil
}

type scriptSpec = prefabs.ScriptComponentSpec

func buildScript(raw any, ctx *buildContext) (any, error) {
	spec, err := prefabs.DecodeComponentSpec[scriptSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode script spec: %w", err)
	}
	switch {
	case strings.TrimSpace(spec.Source) != "":
		return component.Script{Name: ctx.PrefabPath + "#inline", Source: spec.Source}, nil
	case spec.File != "":
		src, err := ctx.Loader.LoadScript(spec.File)
		if err != nil {
			return nil, fmt.Errorf("load script %q: %w", spec.File, err)
		}
		return component.Script{Name: prefabs.ScriptName(spec.File), Source: string(src)}, nil
	default:
		return nil, fmt.Errorf("script needs file or source")
	}
}

type ttlSpec = prefabs.TTLComponentSpec

func buildTTL(raw any, _ *buildContext) (any, error) {
	spec, err := prefabs.DecodeComponentSpec[ttlSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Frames < 0 {
		return nil, fmt.Errorf("ttl frames must not be negative")
	}
	return component.TTL{Frames: spec.Frames}, nil
}
