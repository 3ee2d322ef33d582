package ecs

import (
	"iter"
	"math/bits"
	"strconv"
	"strings"
)

// ComponentID is the bit index assigned to a registered component type.
type ComponentID uint8

const (
	signatureWords = 4
	bitsPerWord    = 64

	// MaxComponentTypes is the width of a Signature.
	MaxComponentTypes = signatureWords * bitsPerWord
)

// Signature is a set of component types, one bit per ComponentID.
type Signature [signatureWords]uint64

// SignatureOf builds a signature from component ids.
func SignatureOf(ids ...ComponentID) Signature {
	var s Signature
	for _, id := range ids {
		s.Set(id)
	}
	return s
}

// Set enables the bit for id.
func (s *Signature) Set(id ComponentID) {
	s[id>>6] |= uint64(1) << (id & 63)
}

// Unset clears the bit for id.
func (s *Signature) Unset(id ComponentID) {
	s[id>>6] &^= uint64(1) << (id & 63)
}

// Has reports whether the bit for id is set.
func (s Signature) Has(id ComponentID) bool {
	return s[id>>6]&(uint64(1)<<(id&63)) != 0
}

// Contains reports whether every bit of sub is also set in s.
func (s Signature) Contains(sub Signature) bool {
	return (s[0]&sub[0]) == sub[0] &&
		(s[1]&sub[1]) == sub[1] &&
		(s[2]&sub[2]) == sub[2] &&
		(s[3]&sub[3]) == sub[3]
}

// Intersects reports whether s and other share at least one bit.
func (s Signature) Intersects(other Signature) bool {
	return (s[0]&other[0]) != 0 ||
		(s[1]&other[1]) != 0 ||
		(s[2]&other[2]) != 0 ||
		(s[3]&other[3]) != 0
}

// Union returns s | other.
func (s Signature) Union(other Signature) Signature {
	for i := range s {
		s[i] |= other[i]
	}
	return s
}

// Without returns s &^ other.
func (s Signature) Without(other Signature) Signature {
	for i := range s {
		s[i] &^= other[i]
	}
	return s
}

// IsEmpty reports whether no bit is set.
func (s Signature) IsEmpty() bool {
	return s == Signature{}
}

// Count returns the number of set bits.
func (s Signature) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// IDs yields the set component ids in ascending order.
func (s Signature) IDs() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for i, w := range s {
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				if !yield(ComponentID(i*bitsPerWord + bit)) {
					return
				}
				w &^= uint64(1) << bit
			}
		}
	}
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for id := range s.IDs() {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(strconv.Itoa(int(id)))
	}
	b.WriteByte('}')
	return b.String()
}
