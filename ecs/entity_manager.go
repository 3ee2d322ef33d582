package ecs

import (
	"iter"

	"github.com/rotisserie/eris"
)

// EntityManager owns entity lifecycle: slot allocation from a FIFO of dead
// indices, the per-entity signature table and generation counters. It knows
// nothing about component storage.
type EntityManager struct {
	signatures  []Signature
	generations []generation

	living    []EntityIndex
	livingPos []int32 // position in living, -1 when the slot is dead

	// dead is a ring buffer holding every free index in release order.
	dead     []EntityIndex
	deadHead int
	deadLen  int
}

// NewEntityManager allocates tables for maxEntities slots. Indices are handed
// out in ascending order until the first one is recycled.
func NewEntityManager(maxEntities int) *EntityManager {
	m := &EntityManager{
		signatures:  make([]Signature, maxEntities),
		generations: make([]generation, maxEntities),
		living:      make([]EntityIndex, 0, maxEntities),
		livingPos:   make([]int32, maxEntities),
		dead:        make([]EntityIndex, maxEntities),
		deadLen:     maxEntities,
	}
	for i := range maxEntities {
		m.dead[i] = EntityIndex(i)
		m.generations[i] = 1
		m.livingPos[i] = -1
	}
	return m
}

// Create takes the oldest dead index and returns a handle for it with an
// empty signature. On ErrCapacityExceeded nothing is modified.
func (m *EntityManager) Create() (Entity, error) {
	if m.deadLen == 0 {
		return 0, ErrCapacityExceeded
	}
	idx := m.dead[m.deadHead]
	m.deadHead++
	if m.deadHead == len(m.dead) {
		m.deadHead = 0
	}
	m.deadLen--

	m.livingPos[idx] = int32(len(m.living))
	m.living = append(m.living, idx)
	m.signatures[idx] = Signature{}
	return makeEntity(idx, m.generations[idx]), nil
}

// Destroy clears the entity's signature, queues its index for reuse and bumps
// the slot generation so outstanding handles go stale.
func (m *EntityManager) Destroy(e Entity) error {
	idx, err := m.resolve(e)
	if err != nil {
		return eris.Wrapf(err, "destroy entity %s", e)
	}

	m.signatures[idx] = Signature{}

	tail := m.deadHead + m.deadLen
	if tail >= len(m.dead) {
		tail -= len(m.dead)
	}
	m.dead[tail] = idx
	m.deadLen++

	pos := m.livingPos[idx]
	last := len(m.living) - 1
	moved := m.living[last]
	m.living[pos] = moved
	m.livingPos[moved] = pos
	m.living = m.living[:last]
	m.livingPos[idx] = -1

	m.generations[idx]++
	if m.generations[idx] == 0 {
		m.generations[idx] = 1
	}
	return nil
}

// IsAlive reports whether e refers to a living entity.
func (m *EntityManager) IsAlive(e Entity) bool {
	_, err := m.resolve(e)
	return err == nil
}

// SetSignature overwrites the signature of a living entity.
func (m *EntityManager) SetSignature(e Entity, sig Signature) error {
	idx, err := m.resolve(e)
	if err != nil {
		return err
	}
	m.signatures[idx] = sig
	return nil
}

// Signature returns the signature of a living entity.
func (m *EntityManager) Signature(e Entity) (Signature, error) {
	idx, err := m.resolve(e)
	if err != nil {
		return Signature{}, err
	}
	return m.signatures[idx], nil
}

// Living returns the living indices. The slice is owned by the manager and is
// only valid until the next Create or Destroy.
func (m *EntityManager) Living() []EntityIndex {
	return m.living
}

// Entities returns a copy of the living set as handles.
func (m *EntityManager) Entities() []Entity {
	out := make([]Entity, len(m.living))
	for i, idx := range m.living {
		out[i] = makeEntity(idx, m.generations[idx])
	}
	return out
}

// All yields every living entity.
func (m *EntityManager) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := len(m.living) - 1; i >= 0; i-- {
			if i >= len(m.living) {
				continue
			}
			idx := m.living[i]
			if !yield(makeEntity(idx, m.generations[idx])) {
				return
			}
		}
	}
}

// Len returns the number of living entities.
func (m *EntityManager) Len() int {
	return len(m.living)
}

// Cap returns the size of the entity table.
func (m *EntityManager) Cap() int {
	return len(m.signatures)
}

func (m *EntityManager) resolve(e Entity) (EntityIndex, error) {
	idx := e.Index()
	if int(idx) >= len(m.generations) || m.livingPos[idx] < 0 || m.generations[idx] != e.generation() {
		return 0, ErrStaleEntity
	}
	return idx, nil
}

func (m *EntityManager) handle(idx EntityIndex) Entity {
	return makeEntity(idx, m.generations[idx])
}

func (m *EntityManager) alive(idx EntityIndex) bool {
	return int(idx) < len(m.livingPos) && m.livingPos[idx] >= 0
}

func (m *EntityManager) signatureAt(idx EntityIndex) Signature {
	return m.signatures[idx]
}

func (m *EntityManager) setSignatureAt(idx EntityIndex, sig Signature) {
	m.signatures[idx] = sig
}
