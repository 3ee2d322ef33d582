package ecs

import "strconv"

// EntityIndex is a slot in the world's fixed-size entity table.
type EntityIndex uint32

// Entity is a handle pairing an EntityIndex with the generation the slot had
// when the handle was issued. A handle goes stale once its entity is destroyed,
// even if the index is later recycled.
type Entity uint64

type generation uint32

const entityIndexBits = 32

func makeEntity(idx EntityIndex, gen generation) Entity {
	return Entity(uint64(gen)<<entityIndexBits | uint64(idx))
}

// Index returns the table slot of the entity.
func (e Entity) Index() EntityIndex {
	return EntityIndex(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIndexBits))
}

// Generation returns the generation counter of the handle.
func (e Entity) Generation() uint32 {
	return uint32(e.generation())
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

// Valid reports whether the handle was issued by a world. It does not check
// liveness; use World.IsAlive for that.
func (e Entity) Valid() bool {
	return e.generation() != 0
}
