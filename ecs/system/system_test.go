package system

import (
	"image/color"
	"testing"

	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) (*ecs.World, *component.Set) {
	t.Helper()
	w, err := ecs.NewWorld(ecs.Config{MaxEntities: 64, MaxComponents: 16})
	require.NoError(t, err)
	set, err := component.Register(w)
	require.NoError(t, err)
	return w, set
}

func spawn(t *testing.T, w *ecs.World, attach ...func(e ecs.Entity) error) ecs.Entity {
	t.Helper()
	e, err := w.CreateEntity()
	require.NoError(t, err)
	for _, fn := range attach {
		require.NoError(t, fn(e))
	}
	return e
}

func with[T any](c ecs.Component[T], v T) func(ecs.Entity) error {
	return func(e ecs.Entity) error { return c.Attach(e, v) }
}

func TestMovementSystem(t *testing.T) {
	w, set := newTestWorld(t)
	mover := spawn(t, w,
		with(set.Transform, component.NewTransform(1, 1)),
		with(set.Velocity, component.Velocity{X: 2, Y: -1, Angular: 0.5}))
	still := spawn(t, w, with(set.Transform, component.NewTransform(5, 5)))
	physical := spawn(t, w,
		with(set.Transform, component.NewTransform(0, 0)),
		with(set.Velocity, component.Velocity{X: 3}),
		with(set.RigidBody, component.RigidBody{}))

	sys := NewMovementSystem(set)
	require.NoError(t, sys.Update(w))
	require.NoError(t, sys.Update(w))

	tr, _ := set.Transform.Value(mover)
	assert.Equal(t, 5.0, tr.X)
	assert.Equal(t, -1.0, tr.Y)
	assert.Equal(t, 1.0, tr.Rotation)

	tr, _ = set.Transform.Value(still)
	assert.Equal(t, 5.0, tr.X)

	tr, _ = set.Transform.Value(physical)
	assert.Equal(t, 0.0, tr.X)

	require.ErrorIs(t, sys.Update(nil), ecs.ErrNilWorld)
}

func TestTTLSystem(t *testing.T) {
	cases := []struct {
		name       string
		frames     int
		aliveAfter int // updates survived
	}{
		{"zero_expires_immediately", 0, 0},
		{"one_frame", 1, 0},
		{"three_frames", 3, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, set := newTestWorld(t)
			e := spawn(t, w, with(set.TTL, component.TTL{Frames: c.frames}))
			keeper := spawn(t, w, with(set.Transform, component.Transform{}))
			sys := NewTTLSystem(set)

			for i := 0; i < c.aliveAfter; i++ {
				require.NoError(t, sys.Update(w))
				require.True(t, w.IsAlive(e), "update %d", i)
			}
			require.NoError(t, sys.Update(w))
			assert.False(t, w.IsAlive(e))
			assert.True(t, w.IsAlive(keeper))

			events := w.Events().Drain()
			require.Len(t, events, 1)
			assert.Equal(t, ecs.EventEntityExpired, events[0].Type)
			assert.Equal(t, e, events[0].Entity)
			require.NoError(t, w.Validate())
		})
	}
}

func TestCameraSystemFollowsLabel(t *testing.T) {
	w, set := newTestWorld(t)
	cam := component.DefaultCamera()
	cam.TargetName = "player"
	cam.Smoothness = 0.5
	camera := spawn(t, w, with(set.Camera, cam), with(set.Transform, component.NewTransform(0, 0)))
	player := spawn(t, w,
		with(set.Label, component.Label{Name: "player"}),
		with(set.Transform, component.NewTransform(100, 40)))

	sys := NewCameraSystem(set, 800, 400)
	require.NoError(t, sys.Update(w))

	tr, _ := set.Transform.Value(camera)
	assert.InDelta(t, 50.0, tr.X, 1e-9)
	assert.InDelta(t, 20.0, tr.Y, 1e-9)
	got, _ := set.Camera.Value(camera)
	assert.InDelta(t, 2.0, got.Aspect, 1e-9)

	t.Run("retargets_after_destroy", func(t *testing.T) {
		require.NoError(t, w.DestroyEntity(player))
		spawn(t, w,
			with(set.Label, component.Label{Name: "player"}),
			with(set.Transform, component.NewTransform(50, 20)))
		require.NoError(t, sys.Update(w))
		tr, _ := set.Transform.Value(camera)
		assert.InDelta(t, 50.0, tr.X, 1e-9)
		assert.InDelta(t, 20.0, tr.Y, 1e-9)
	})

	t.Run("missing_target_keeps_position", func(t *testing.T) {
		c, err := set.Camera.Get(camera)
		require.NoError(t, err)
		c.TargetName = "nobody"
		require.NoError(t, sys.Update(w))
		tr, _ := set.Transform.Value(camera)
		assert.InDelta(t, 50.0, tr.X, 1e-9)
	})
}

func TestPhysicsSystem(t *testing.T) {
	w, set := newTestWorld(t)
	ball := spawn(t, w,
		with(set.Transform, component.NewTransform(0, 0)),
		with(set.RigidBody, component.RigidBody{Radius: 4, Mass: 1}),
		with(set.Velocity, component.Velocity{}))
	floor := spawn(t, w,
		with(set.Transform, component.NewTransform(0, 500)),
		with(set.RigidBody, component.RigidBody{Width: 1000, Height: 10, Static: true}))

	sys := NewPhysicsSystem(set, 1, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, sys.Update(w))
	}
	assert.Equal(t, 2, sys.Bodies())

	tr, _ := set.Transform.Value(ball)
	assert.Greater(t, tr.Y, 0.0)
	vel, _ := set.Velocity.Value(ball)
	assert.Greater(t, vel.Y, 0.0)

	rb, _ := set.RigidBody.Value(ball)
	assert.NotNil(t, rb.Body)
	assert.NotNil(t, rb.Shape)

	floorTr, _ := set.Transform.Value(floor)
	assert.Equal(t, 500.0, floorTr.Y)

	t.Run("destroyed_entities_leave_the_space", func(t *testing.T) {
		require.NoError(t, w.DestroyEntity(ball))
		require.NoError(t, sys.Update(w))
		assert.Equal(t, 1, sys.Bodies())

		_, err := set.RigidBody.Detach(floor)
		require.NoError(t, err)
		require.NoError(t, sys.Update(w))
		assert.Equal(t, 0, sys.Bodies())
	})
}

func TestPhysicsSystemRebuildsReplacedBody(t *testing.T) {
	w, set := newTestWorld(t)
	crate := spawn(t, w,
		with(set.Transform, component.NewTransform(0, 0)),
		with(set.RigidBody, component.RigidBody{Width: 10, Height: 10, Mass: 1}))

	sys := NewPhysicsSystem(set, 0, 1)
	require.NoError(t, sys.Update(w))
	before, _ := set.RigidBody.Value(crate)
	require.NotNil(t, before.Body)
	assert.Equal(t, 1.0, before.Body.Mass())

	require.NoError(t, set.RigidBody.Attach(crate, component.RigidBody{Width: 50, Height: 50, Mass: 5}))
	require.NoError(t, sys.Update(w))

	after, _ := set.RigidBody.Value(crate)
	require.NotNil(t, after.Body)
	require.NotNil(t, after.Shape)
	assert.NotSame(t, before.Body, after.Body)
	assert.Equal(t, 5.0, after.Body.Mass())
	assert.Equal(t, 1, sys.Bodies())
	assert.False(t, sys.Space().ContainsBody(before.Body))
	assert.True(t, sys.Space().ContainsBody(after.Body))
}

func TestDrawListSystem(t *testing.T) {
	w, set := newTestWorld(t)
	cam := component.DefaultCamera()
	cam.Zoom = 2
	spawn(t, w, with(set.Camera, cam), with(set.Transform, component.NewTransform(10, 10)))

	red := color.NRGBA{R: 255, A: 255}
	back := spawn(t, w,
		with(set.Transform, component.Transform{X: 10, Y: 10, Z: 5}),
		with(set.Render, component.Render{Width: 4, Height: 4, Layer: 0, Color: red}))
	front := spawn(t, w,
		with(set.Transform, component.Transform{X: 12, Y: 10}),
		with(set.Render, component.Render{Width: 4, Height: 4, Layer: 1}),
		with(set.Label, component.Label{Name: "front"}))
	middle := spawn(t, w,
		with(set.Transform, component.Transform{X: 10, Y: 10, Z: 9}),
		with(set.Render, component.Render{Width: 4, Height: 4, Layer: 0}))
	spawn(t, w,
		with(set.Transform, component.Transform{X: 10, Y: 10}),
		with(set.Render, component.Render{Width: 4, Height: 4, Hidden: true}))
	spawn(t, w,
		with(set.Transform, component.Transform{X: 10000, Y: 10}),
		with(set.Render, component.Render{Width: 4, Height: 4}))

	sys := NewDrawListSystem(set, 200, 100)
	require.NoError(t, sys.Update(w))

	items := sys.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []ecs.Entity{back, middle, front}, []ecs.Entity{items[0].Entity, items[1].Entity, items[2].Entity})

	assert.Equal(t, red, items[0].Color)
	assert.Equal(t, 100.0, items[0].X)
	assert.Equal(t, 50.0, items[0].Y)
	assert.Equal(t, 8.0, items[0].Width)
	assert.Equal(t, 104.0, items[2].X)
	assert.Equal(t, "front", items[2].Label)

	view := sys.View()
	assert.Equal(t, 2.0, view.Zoom)
	x, y := view.WorldToScreen(10, 10)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 50.0, y)
}
