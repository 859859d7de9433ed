// Package bitset implements a fixed-size set of small non-negative integers
// packed into 32-bit words.
//
// A Bitset is the possibility domain of one output cell in the solver: bit i
// is set while pattern i is still allowed there. The logical size is fixed at
// construction and every binary operation requires operands of the same word
// count; a mismatch is a programming error and panics.
//
// Complexity:
//
//   - Set, Has: O(1).
//   - IntersectWith, UnionWith, Equal, Count, IsEmpty: O(words).
//   - Indices, AppendIndices: O(words + popcount).
package bitset

import (
	"fmt"
	"math/bits"
	"strings"
)

const wordBits = 32

// Bitset is a fixed-size bit vector over uint32 words.
type Bitset struct {
	words []uint32
	size  int
}

// New returns an empty Bitset able to hold bits 0..size-1.
func New(size int) *Bitset {
	if size < 0 {
		panic(fmt.Sprintf("bitset: negative size %d", size))
	}
	return &Bitset{
		words: make([]uint32, (size+wordBits-1)/wordBits),
		size:  size,
	}
}

// Of returns a Bitset of the given size with the listed bits set.
func Of(size int, indices ...int) *Bitset {
	b := New(size)
	for _, i := range indices {
		b.Set(i)
	}
	return b
}

// Len reports the logical size the set was created with.
func (b *Bitset) Len() int { return b.size }

// Set marks bit i.
func (b *Bitset) Set(i int) {
	b.check(i)
	b.words[i/wordBits] |= 1 << uint(i%wordBits)
}

// Has reports whether bit i is set.
func (b *Bitset) Has(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// ClearAll zeroes every word.
func (b *Bitset) ClearAll() {
	clear(b.words)
}

// Fill sets every bit in 0..Len()-1. Bits past the logical size stay zero so
// that Count and Indices never report phantom members.
func (b *Bitset) Fill() {
	for i := range b.words {
		b.words[i] = ^uint32(0)
	}
	if rem := b.size % wordBits; rem != 0 {
		b.words[len(b.words)-1] = (1 << uint(rem)) - 1
	}
}

// IsEmpty reports whether no bit is set.
func (b *Bitset) IsEmpty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount32(w)
	}
	return n
}

// IntersectWith keeps only the bits also present in other and reports whether
// any bit was removed.
func (b *Bitset) IntersectWith(other *Bitset) bool {
	b.mustMatch(other)
	changed := false
	for i, w := range other.words {
		nw := b.words[i] & w
		if nw != b.words[i] {
			b.words[i] = nw
			changed = true
		}
	}
	return changed
}

// UnionWith adds every bit of other.
func (b *Bitset) UnionWith(other *Bitset) {
	b.mustMatch(other)
	for i, w := range other.words {
		b.words[i] |= w
	}
}

// CopyFrom overwrites b with the contents of src without allocating.
func (b *Bitset) CopyFrom(src *Bitset) {
	b.mustMatch(src)
	copy(b.words, src.words)
}

// Clone returns an independent deep copy.
func (b *Bitset) Clone() *Bitset {
	c := &Bitset{words: make([]uint32, len(b.words)), size: b.size}
	copy(c.words, b.words)
	return c
}

// And returns a new Bitset holding the intersection of a and b.
func And(a, b *Bitset) *Bitset {
	a.mustMatch(b)
	c := a.Clone()
	for i, w := range b.words {
		c.words[i] &= w
	}
	return c
}

// Equal reports whether a and b have the same logical size and the same bits.
func Equal(a, b *Bitset) bool {
	if a.size != b.size || len(a.words) != len(b.words) {
		return false
	}
	for i, w := range a.words {
		if b.words[i] != w {
			return false
		}
	}
	return true
}

// Indices returns the set bits in ascending order.
func (b *Bitset) Indices() []int {
	return b.AppendIndices(make([]int, 0, b.Count()))
}

// AppendIndices appends the set bits in ascending order to dst and returns
// the extended slice. Each word is drained by isolating its lowest set bit
// (w & -w), so the cost is proportional to the number of members.
func (b *Bitset) AppendIndices(dst []int) []int {
	for wi, w := range b.words {
		base := wi * wordBits
		for w != 0 {
			low := w & -w
			dst = append(dst, base+bits.Len32(low)-1)
			w ^= low
		}
	}
	return dst
}

// First returns the lowest set bit, or -1 when the set is empty.
func (b *Bitset) First() int {
	for wi, w := range b.words {
		if w != 0 {
			return wi*wordBits + bits.TrailingZeros32(w)
		}
	}
	return -1
}

// String renders the set as {i j k}.
func (b *Bitset) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for n, i := range b.Indices() {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", i)
	}
	sb.WriteByte('}')
	return sb.String()
}

func (b *Bitset) check(i int) {
	if i < 0 || i >= b.size {
		panic(fmt.Sprintf("bitset: index %d out of range [0,%d)", i, b.size))
	}
}

func (b *Bitset) mustMatch(other *Bitset) {
	if len(b.words) != len(other.words) {
		panic(fmt.Sprintf("bitset: word count mismatch %d != %d", len(b.words), len(other.words)))
	}
}
