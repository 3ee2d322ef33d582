package entity

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
	"github.com/milk9111/waterdrop/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T, maxEntities int) (*ecs.World, *component.Set) {
	t.Helper()
	w, err := ecs.NewWorld(ecs.Config{MaxEntities: maxEntities, MaxComponents: 16})
	require.NoError(t, err)
	set, err := component.Register(w)
	require.NoError(t, err)
	return w, set
}

func TestBuildEntity(t *testing.T) {
	w, set := newTestWorld(t, 8)
	spec := prefabs.EntityBuildSpec{
		Name: "box",
		Components: map[string]any{
			"transform": map[string]any{"x": 3, "y": 4},
			"render":    map[string]any{"color": "#00ff00", "width": 8, "height": 8, "layer": 2},
			"velocity":  map[string]any{"x": 1},
			"ttl":       map[string]any{"frames": 10},
		},
	}

	e, err := BuildEntity(w, set, spec)
	require.NoError(t, err)

	tr, ok := set.Transform.Value(e)
	require.True(t, ok)
	assert.Equal(t, component.Transform{X: 3, Y: 4, ScaleX: 1, ScaleY: 1}, tr)

	r, ok := set.Render.Value(e)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, r.Color)
	assert.Equal(t, 2, r.Layer)

	label, ok := set.Label.Value(e)
	require.True(t, ok)
	assert.Equal(t, "box", label.Name)

	ttl, _ := set.TTL.Value(e)
	assert.Equal(t, 10, ttl.Frames)
	require.NoError(t, w.Validate())
}

func TestBuildEntityFailuresDestroyEntity(t *testing.T) {
	cases := []struct {
		name       string
		components map[string]any
	}{
		{"unknown_component", map[string]any{"transform": nil, "wings": map[string]any{}}},
		{"bad_color", map[string]any{"transform": nil, "render": map[string]any{"color": "green"}}},
		{"negative_ttl", map[string]any{"ttl": map[string]any{"frames": -1}}},
		{"script_without_source", map[string]any{"script": map[string]any{}}},
		{"missing_script_file", map[string]any{"script": map[string]any{"file": "nope.tengo"}}},
		{"bad_camera_planes", map[string]any{"camera": map[string]any{"znear": 10, "zfar": 5}}},
		{"no_components", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, set := newTestWorld(t, 4)
			_, err := BuildEntity(w, set, prefabs.EntityBuildSpec{Name: c.name, Components: c.components})
			require.Error(t, err)
			assert.Equal(t, 0, w.Len())
			require.NoError(t, w.Validate())
		})
	}
}

func TestBuildEntityCapacity(t *testing.T) {
	w, set := newTestWorld(t, 1)
	spec := prefabs.EntityBuildSpec{Components: map[string]any{"transform": nil}}
	_, err := BuildEntity(w, set, spec)
	require.NoError(t, err)
	_, err = BuildEntity(w, set, spec)
	require.ErrorIs(t, err, ecs.ErrCapacityExceeded)
}

func TestBuildPrefabEmbedded(t *testing.T) {
	w, set := newTestWorld(t, 8)
	l := prefabs.NewLoader(t.TempDir())

	player, err := BuildPrefab(w, set, l, "player.yaml")
	require.NoError(t, err)
	sc, ok := set.Script.Value(player)
	require.True(t, ok)
	assert.Equal(t, "player.tengo", sc.Name)
	assert.Contains(t, sc.Source, "update :=")
	assert.True(t, set.RigidBody.Has(player))

	camera, err := BuildPrefab(w, set, l, "camera.yaml")
	require.NoError(t, err)
	cam, ok := set.Camera.Value(camera)
	require.True(t, ok)
	assert.Equal(t, "player", cam.TargetName)
	assert.True(t, cam.Active)

	_, err = BuildPrefab(w, set, l, "missing.yaml")
	require.Error(t, err)
	_, err = BuildPrefab(nil, set, l, "player.yaml")
	require.ErrorIs(t, err, ecs.ErrNilWorld)
}

func TestBuildEntityInlineScriptAndLabelShorthand(t *testing.T) {
	w, set := newTestWorld(t, 4)
	e, err := BuildEntity(w, set, prefabs.EntityBuildSpec{
		Name: "spinner",
		Components: map[string]any{
			"label":  "custom",
			"script": map[string]any{"source": "update := func(e) {}"},
		},
	})
	require.NoError(t, err)
	label, _ := set.Label.Value(e)
	assert.Equal(t, "custom", label.Name)
	sc, _ := set.Script.Value(e)
	assert.Equal(t, "spinner#inline", sc.Name)
}

func TestSpawnScene(t *testing.T) {
	w, set := newTestWorld(t, 64)
	l := prefabs.NewLoader(t.TempDir())

	ents, err := LoadScene(w, set, l, "scene.yaml")
	require.NoError(t, err)
	// ground, player, 5 crates, 3 sparks, camera
	require.Len(t, ents, 11)
	assert.Equal(t, 11, w.Len())

	var crates []component.Transform
	for _, e := range ents {
		if label, _ := set.Label.Value(e); label.Name == "crate" {
			tr, _ := set.Transform.Value(e)
			crates = append(crates, tr)
		}
	}
	require.Len(t, crates, 5)
	assert.Equal(t, 80.0, crates[0].X)
	assert.Equal(t, 100.0, crates[0].Y)
	assert.Equal(t, 240.0, crates[4].X)
	assert.Equal(t, -20.0, crates[4].Y)

	events := w.Events().Drain()
	assert.Len(t, events, 11)
	for _, evt := range events {
		assert.Equal(t, ecs.EventSpawned, evt.Type)
	}
	require.NoError(t, w.Validate())
}

func TestSpawnSceneRollsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"),
		[]byte("name: broken\ncomponents:\n  ttl: {frames: -5}\n"), 0o644))
	l := prefabs.NewLoader(dir)
	w, set := newTestWorld(t, 16)

	scene := prefabs.SceneSpec{
		Name: "partial",
		Entities: []prefabs.SceneEntry{
			{Prefab: "crate.yaml", Count: 3},
			{Prefab: "broken.yaml"},
		},
	}
	_, err := SpawnScene(w, set, l, scene)
	require.Error(t, err)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 0, w.Events().Len())
	require.NoError(t, w.Validate())

	t.Run("capacity", func(t *testing.T) {
		small, smallSet := newTestWorld(t, 2)
		_, err := SpawnScene(small, smallSet, l, prefabs.SceneSpec{
			Entities: []prefabs.SceneEntry{{Prefab: "crate.yaml", Count: 3}},
		})
		require.ErrorIs(t, err, ecs.ErrCapacityExceeded)
		assert.Equal(t, 0, small.Len())
	})
}
