package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityManagerCreateDestroy(t *testing.T) {
	m := NewEntityManager(3)
	assert.Equal(t, 3, m.Cap())

	var ents []Entity
	for i := 0; i < 3; i++ {
		e, err := m.Create()
		require.NoError(t, err)
		assert.True(t, e.Valid())
		assert.Equal(t, EntityIndex(i), e.Index())
		assert.Equal(t, uint32(1), e.Generation())
		ents = append(ents, e)
	}

	_, err := m.Create()
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 3, m.Len())

	require.NoError(t, m.Destroy(ents[0]))
	assert.False(t, m.IsAlive(ents[0]))
	assert.ElementsMatch(t, []Entity{ents[1], ents[2]}, m.Entities())
	assert.ElementsMatch(t, []EntityIndex{1, 2}, m.Living())

	require.ErrorIs(t, m.Destroy(ents[0]), ErrStaleEntity)

	again, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, EntityIndex(0), again.Index())
	assert.Equal(t, uint32(2), again.Generation())
	assert.Equal(t, "0v2", again.String())
}

func TestEntityManagerSignatures(t *testing.T) {
	m := NewEntityManager(2)
	e, err := m.Create()
	require.NoError(t, err)

	sig := SignatureOf(1, 4)
	require.NoError(t, m.SetSignature(e, sig))
	got, err := m.Signature(e)
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	require.NoError(t, m.Destroy(e))
	_, err = m.Signature(e)
	require.ErrorIs(t, err, ErrStaleEntity)
	require.ErrorIs(t, m.SetSignature(e, sig), ErrStaleEntity)

	// a recycled slot starts empty
	next, err := m.Create()
	require.NoError(t, err)
	next2, err := m.Create()
	require.NoError(t, err)
	for _, e := range []Entity{next, next2} {
		s, err := m.Signature(e)
		require.NoError(t, err)
		assert.True(t, s.IsEmpty())
	}
}

func TestEntityManagerGenerationWraps(t *testing.T) {
	m := NewEntityManager(1)
	m.generations[0] = ^generation(0)
	e, err := m.Create()
	require.NoError(t, err)
	require.NoError(t, m.Destroy(e))

	next, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), next.Generation())
	assert.True(t, next.Valid())
}

func TestEntityManagerAllAllowsDestroy(t *testing.T) {
	m := NewEntityManager(8)
	for i := 0; i < 8; i++ {
		_, err := m.Create()
		require.NoError(t, err)
	}
	n := 0
	for e := range m.All() {
		n++
		require.NoError(t, m.Destroy(e))
	}
	assert.Equal(t, 8, n)
	assert.Equal(t, 0, m.Len())

	// all eight slots are free again
	for i := 0; i < 8; i++ {
		_, err := m.Create()
		require.NoError(t, err)
	}
	_, err := m.Create()
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestEntityZeroIsInvalid(t *testing.T) {
	var e Entity
	assert.False(t, e.Valid())
	assert.False(t, NewEntityManager(1).IsAlive(e))
}
