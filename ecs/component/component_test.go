package component

import (
	"testing"

	"github.com/milk9111/waterdrop/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	w, err := ecs.NewWorld(ecs.Config{MaxEntities: 8, MaxComponents: 16})
	require.NoError(t, err)

	set, err := Register(w)
	require.NoError(t, err)
	assert.Len(t, w.Components(), 8)

	again, err := Register(w)
	require.NoError(t, err)
	assert.Equal(t, set.Transform.ID(), again.Transform.ID())

	for _, name := range []string{TransformName, VelocityName, CameraName, LabelName, RenderName, RigidBodyName, ScriptName, TTLName} {
		_, ok := w.ComponentByName(name)
		assert.True(t, ok, name)
	}
}

func TestRegisterTooSmall(t *testing.T) {
	w, err := ecs.NewWorld(ecs.Config{MaxEntities: 8, MaxComponents: 4})
	require.NoError(t, err)
	_, err = Register(w)
	require.ErrorIs(t, err, ecs.ErrTooManyComponents)
}

func TestFindByLabel(t *testing.T) {
	w, err := ecs.NewWorld(ecs.Config{MaxEntities: 8, MaxComponents: 16})
	require.NoError(t, err)
	set, err := Register(w)
	require.NoError(t, err)

	a, err := w.CreateEntity()
	require.NoError(t, err)
	b, err := w.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, set.Label.Attach(a, Label{Name: "player"}))
	require.NoError(t, set.Label.Attach(b, Label{Name: "crate"}))

	got, ok := set.FindByLabel("crate")
	require.True(t, ok)
	assert.Equal(t, b, got)
	_, ok = set.FindByLabel("missing")
	assert.False(t, ok)
}

func TestTransformDirections(t *testing.T) {
	tr := NewTransform(1, 2)
	assert.Equal(t, 1.0, tr.ScaleX)
	fx, fy := tr.Forward()
	assert.InDelta(t, 1.0, fx, 1e-9)
	assert.InDelta(t, 0.0, fy, 1e-9)
	rx, ry := tr.Right()
	assert.InDelta(t, 0.0, rx, 1e-9)
	assert.InDelta(t, 1.0, ry, 1e-9)
}
