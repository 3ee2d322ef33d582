package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
	"github.com/milk9111/waterdrop/prefabs"
)

// SpawnScene builds every entry of scene. It is all or nothing: on error every
// entity spawned so far is destroyed. Each spawned entity is announced with an
// EventSpawned event.
func SpawnScene(w *ecs.World, set *component.Set, l *prefabs.Loader, scene prefabs.SceneSpec) ([]ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("spawn scene: %w", ecs.ErrNilWorld)
	}

	var spawned []ecs.Entity
	rollback := func(err error) ([]ecs.Entity, error) {
		errs := []error{fmt.Errorf("spawn scene %q: %w", scene.Name, err)}
		for _, e := range spawned {
			errs = append(errs, w.DestroyEntity(e))
		}
		return nil, errors.Join(errs...)
	}

	for _, entry := range scene.Entities {
		spec, err := prefabs.LoadEntityBuildSpec(l, entry.Prefab)
		if err != nil {
			return rollback(err)
		}
		count := entry.Count
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			e, err := build(w, set, spec, &buildContext{PrefabPath: entry.Prefab, Loader: l})
			if err != nil {
				return rollback(err)
			}
			spawned = append(spawned, e)

			if entry.Name != "" {
				if err := set.Label.Attach(e, component.Label{Name: entry.Name}); err != nil {
					return rollback(err)
				}
			}
			if entry.At != nil {
				x := entry.At.X + float64(i)*entry.Step.X
				y := entry.At.Y + float64(i)*entry.Step.Y
				if err := SetEntityTransform(set, e, x, y); err != nil {
					return rollback(err)
				}
			}
		}
	}

	for _, e := range spawned {
		w.Events().Push(ecs.Event{Type: ecs.EventSpawned, Entity: e, Data: scene.Name})
	}
	logger := w.Logger()
	logger.Info().Str("scene", scene.Name).Int("entities", len(spawned)).Msg("spawned scene")
	return spawned, nil
}

// LoadScene loads a scene file through l and spawns it.
func LoadScene(w *ecs.World, set *component.Set, l *prefabs.Loader, filename string) ([]ecs.Entity, error) {
	scene, err := prefabs.LoadSceneSpec(l, filename)
	if err != nil {
		return nil, err
	}
	return SpawnScene(w, set, l, scene)
}
