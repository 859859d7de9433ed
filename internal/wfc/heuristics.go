package wfc

import (
	"math/rand"

	"github.com/blytheSchen/SketchTiler-sub000/internal/bitset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
)

// CellSelector chooses which unresolved cell to collapse next
type CellSelector interface {
	// Reset is called at the start of every attempt
	Reset()
	// Next returns the flat index of the cell to collapse, or -1 when every cell is resolved
	Next(wave *grid.Grid[*bitset.Bitset], ps *PatternSet, rng *rand.Rand) int
}

// PatternSelector chooses the pattern a cell collapses to
type PatternSelector interface {
	// Pick returns one member of cell. The cell is non-empty
	Pick(cell *bitset.Bitset, ps *PatternSet, rng *rand.Rand) int
}

// entropyEpsilon is the tolerance under which two entropies tie
const entropyEpsilon = 1e-9

// LexicalSelector returns the first unresolved cell in row-major order,
// resuming from the last cell it returned. Cells before the cursor stay
// resolved because propagation only removes possibilities.
type LexicalSelector struct {
	cursor int
}

// NewLexicalSelector creates a row-major cell selector
func NewLexicalSelector() *LexicalSelector {
	return &LexicalSelector{}
}

func (s *LexicalSelector) Reset() { s.cursor = 0 }

func (s *LexicalSelector) Next(wave *grid.Grid[*bitset.Bitset], _ *PatternSet, _ *rand.Rand) int {
	for i := s.cursor; i < wave.Len(); i++ {
		if wave.At(i).Count() > 1 {
			s.cursor = i
			return i
		}
	}
	s.cursor = wave.Len()
	return -1
}

// EntropySelector returns the unresolved cell of least Shannon entropy over
// its remaining pattern weights, breaking ties uniformly at random
type EntropySelector struct {
	members []int
	ties    []int
}

// NewEntropySelector creates a minimum-entropy cell selector
func NewEntropySelector() *EntropySelector {
	return &EntropySelector{}
}

func (s *EntropySelector) Reset() {}

func (s *EntropySelector) Next(wave *grid.Grid[*bitset.Bitset], ps *PatternSet, rng *rand.Rand) int {
	best := 0.0
	s.ties = s.ties[:0]
	for i := 0; i < wave.Len(); i++ {
		cell := wave.At(i)
		if cell.Count() <= 1 {
			continue
		}
		s.members = cell.AppendIndices(s.members[:0])
		e := ps.entropy(s.members)
		switch {
		case len(s.ties) == 0 || e < best-entropyEpsilon:
			best = e
			s.ties = append(s.ties[:0], i)
		case e <= best+entropyEpsilon:
			s.ties = append(s.ties, i)
		}
	}
	switch len(s.ties) {
	case 0:
		return -1
	case 1:
		return s.ties[0]
	default:
		return s.ties[rng.Intn(len(s.ties))]
	}
}

// WeightedSelector picks a member with probability proportional to its weight
type WeightedSelector struct {
	members []int
}

// NewWeightedSelector creates a weight-proportional pattern selector
func NewWeightedSelector() *WeightedSelector {
	return &WeightedSelector{}
}

func (s *WeightedSelector) Pick(cell *bitset.Bitset, ps *PatternSet, rng *rand.Rand) int {
	s.members = cell.AppendIndices(s.members[:0])
	total := 0
	for _, p := range s.members {
		total += ps.Weights[p]
	}
	r := rng.Intn(total)
	for _, p := range s.members {
		r -= ps.Weights[p]
		if r < 0 {
			return p
		}
	}
	return s.members[len(s.members)-1]
}

var (
	_ CellSelector    = (*LexicalSelector)(nil)
	_ CellSelector    = (*EntropySelector)(nil)
	_ PatternSelector = (*WeightedSelector)(nil)
)
