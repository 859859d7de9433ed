package wfc

import "github.com/blytheSchen/SketchTiler-sub000/internal/bitset"

// Rules holds the learned adjacency table: for every pattern and direction,
// the set of patterns that may sit next to it on that side.
// Invariant: j ∈ Allowed(i, d) exactly when i ∈ Allowed(j, d.Opposite()).
type Rules struct {
	allowed [][4]*bitset.Bitset
}

// newRules allocates empty neighbor sets for count patterns
func newRules(count int) *Rules {
	r := &Rules{allowed: make([][4]*bitset.Bitset, count)}
	for i := range r.allowed {
		for d := range r.allowed[i] {
			r.allowed[i][d] = bitset.New(count)
		}
	}
	return r
}

// buildRules tests every unordered pattern pair once per direction and
// records the result on both sides
func buildRules(patterns []Pattern, n int) *Rules {
	r := newRules(len(patterns))
	for i := range patterns {
		for j := i; j < len(patterns); j++ {
			for _, d := range directions {
				if overlaps(patterns[i], patterns[j], n, d) {
					r.setCanConnect(i, j, d)
				}
			}
		}
	}
	return r
}

// setCanConnect records that b may sit on side d of a (and a on the opposite side of b)
func (r *Rules) setCanConnect(a, b int, d Direction) {
	r.allowed[a][d].Set(b)
	r.allowed[b][d.Opposite()].Set(a)
}

// Allowed returns the patterns permitted on side d of pattern p. The result is shared; do not modify it
func (r *Rules) Allowed(p int, d Direction) *bitset.Bitset {
	return r.allowed[p][d]
}

// CanConnect reports whether b may sit on side d of a
func (r *Rules) CanConnect(a, b int, d Direction) bool {
	return r.allowed[a][d].Has(b)
}

// Len returns the number of patterns covered
func (r *Rules) Len() int {
	return len(r.allowed)
}

// overlaps reports whether b, shifted one cell in direction d from a,
// agrees with a on every cell the two windows share
func overlaps(a, b Pattern, n int, d Direction) bool {
	dx, dy := d.Offset()
	xmin, xmax := max(0, dx), min(n, n+dx)
	ymin, ymax := max(0, dy), min(n, n+dy)
	for y := ymin; y < ymax; y++ {
		for x := xmin; x < xmax; x++ {
			if a.At(n, x, y) != b.At(n, x-dx, y-dy) {
				return false
			}
		}
	}
	return true
}
