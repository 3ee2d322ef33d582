package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	w, err := NewWorld(Config{MaxEntities: 4, MaxComponents: 2})
	require.NoError(t, err)

	pos, err := Register[position](w, "position")
	require.NoError(t, err)
	assert.True(t, pos.Valid())
	assert.Equal(t, ComponentID(0), pos.ID())
	assert.Equal(t, "position", pos.Name())

	t.Run("same_type_same_name_returns_handle", func(t *testing.T) {
		again, err := Register[position](w, "position")
		require.NoError(t, err)
		assert.Equal(t, pos.ID(), again.ID())
	})

	t.Run("same_type_other_name", func(t *testing.T) {
		_, err := Register[position](w, "pos")
		require.ErrorIs(t, err, ErrDuplicateComponent)
	})

	t.Run("name_taken", func(t *testing.T) {
		_, err := Register[velocity](w, "position")
		require.ErrorIs(t, err, ErrDuplicateComponent)
	})

	t.Run("default_name_is_type", func(t *testing.T) {
		vel, err := Register[velocity](w, "")
		require.NoError(t, err)
		assert.Equal(t, "ecs.velocity", vel.Name())
	})

	t.Run("limit", func(t *testing.T) {
		_, err := Register[tag](w, "tag")
		require.ErrorIs(t, err, ErrTooManyComponents)
		assert.Panics(t, func() { MustRegister[tag](w, "tag") })
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := Lookup[position](w)
		require.NoError(t, err)
		assert.Equal(t, pos.ID(), got.ID())
		_, err = Lookup[tag](w)
		require.ErrorIs(t, err, ErrUnknownComponent)
	})

	t.Run("nil_world", func(t *testing.T) {
		_, err := Register[position](nil, "position")
		require.ErrorIs(t, err, ErrNilWorld)
		_, err = Lookup[position](nil)
		require.ErrorIs(t, err, ErrNilWorld)
	})
}

func TestComponentInfo(t *testing.T) {
	w := newTestWorld(t, 4)
	pos := MustRegister[position](w, "position")
	MustRegister[velocity](w, "velocity")
	e, err := w.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, pos.Attach(e, position{}))

	infos := w.Components()
	require.Len(t, infos, 2)
	assert.Equal(t, "position", infos[0].Name)
	assert.Equal(t, 1, infos[0].Count)
	assert.Equal(t, ComponentID(1), infos[1].ID)

	info, ok := w.ComponentByName("velocity")
	require.True(t, ok)
	assert.Equal(t, 0, info.Count)
	_, ok = w.ComponentByName("missing")
	assert.False(t, ok)

	assert.Equal(t, []Entity{e}, pos.Entities())
}

func TestComponentEachAllowsDestroy(t *testing.T) {
	w := newTestWorld(t, 8)
	pos := MustRegister[position](w, "position")
	for i := 0; i < 6; i++ {
		e, err := w.CreateEntity()
		require.NoError(t, err)
		require.NoError(t, pos.Attach(e, position{X: float64(i)}))
	}

	visited := 0
	pos.Each(func(e Entity, p *position) bool {
		visited++
		if int(p.X)%2 == 0 {
			require.NoError(t, w.DestroyEntity(e))
		} else {
			p.Y = 1
		}
		return true
	})
	assert.Equal(t, 6, visited)
	assert.Equal(t, 3, pos.Len())
	for _, v := range pos.Storage().Values() {
		assert.Equal(t, 1.0, v.Y)
	}
	require.NoError(t, w.Validate())
}
