package wfc

import (
	"math"
	"slices"

	"github.com/blytheSchen/SketchTiler-sub000/internal/bitset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
)

// PatternSet is everything learned from a set of training images. It is
// read-only once built and may be shared between solvers.
type PatternSet struct {
	// N is the pattern edge length
	N int
	// Patterns are the unique N×N windows in order of first appearance
	Patterns []Pattern
	// Weights[i] counts how often Patterns[i] occurred
	Weights []int
	// Rules is the adjacency table over pattern indices
	Rules *Rules

	tileIndex map[TileID]*bitset.Bitset
	plogp     []float64
}

// LearnPatterns slides an N×N window over every top-left offset of every
// image, deduplicates the windows by value and derives adjacency rules.
// Images smaller than N contribute nothing. Windows do not wrap and are not
// rotated or reflected.
func LearnPatterns(images []*grid.Grid[TileID], n int) (*PatternSet, error) {
	if n < 1 {
		return nil, ErrInvalidPatternSize
	}

	ps := &PatternSet{N: n}
	seen := make(map[string]int)
	for _, img := range images {
		for y := 0; y+n <= img.Height(); y++ {
			for x := 0; x+n <= img.Width(); x++ {
				p := extract(img, x, y, n)
				k := p.key()
				if idx, ok := seen[k]; ok {
					ps.Weights[idx]++
					continue
				}
				seen[k] = len(ps.Patterns)
				ps.Patterns = append(ps.Patterns, p)
				ps.Weights = append(ps.Weights, 1)
			}
		}
	}

	ps.Rules = buildRules(ps.Patterns, n)
	ps.tileIndex = make(map[TileID]*bitset.Bitset)
	for i, p := range ps.Patterns {
		set, ok := ps.tileIndex[p.TopLeft()]
		if !ok {
			set = bitset.New(len(ps.Patterns))
			ps.tileIndex[p.TopLeft()] = set
		}
		set.Set(i)
	}
	ps.plogp = make([]float64, len(ps.Weights))
	for i, w := range ps.Weights {
		fw := float64(w)
		ps.plogp[i] = fw * math.Log(fw)
	}
	return ps, nil
}

// extract copies the n×n window whose top-left corner is (x, y)
func extract(img *grid.Grid[TileID], x, y, n int) Pattern {
	p := make(Pattern, 0, n*n)
	for dy := 0; dy < n; dy++ {
		for dx := 0; dx < n; dx++ {
			p = append(p, img.At(img.Index(x+dx, y+dy)))
		}
	}
	return p
}

// Len returns the number of unique patterns
func (ps *PatternSet) Len() int {
	return len(ps.Patterns)
}

// PatternsForTile returns the patterns whose top-left tile is t. The result is shared; do not modify it
func (ps *PatternSet) PatternsForTile(t TileID) (*bitset.Bitset, bool) {
	set, ok := ps.tileIndex[t]
	return set, ok
}

// Tiles returns every tile that starts at least one pattern, ascending
func (ps *PatternSet) Tiles() []TileID {
	tiles := make([]TileID, 0, len(ps.tileIndex))
	for t := range ps.tileIndex {
		tiles = append(tiles, t)
	}
	slices.Sort(tiles)
	return tiles
}

// AllowedFor builds the union of pattern sets for the given tiles
func (ps *PatternSet) AllowedFor(tiles ...TileID) (*bitset.Bitset, error) {
	allowed := bitset.New(ps.Len())
	for _, t := range tiles {
		set, ok := ps.tileIndex[t]
		if !ok {
			return nil, &UnknownTileError{Tile: t}
		}
		allowed.UnionWith(set)
	}
	return allowed, nil
}

// entropy returns ln(Σw) - Σ(w·ln w)/Σw over the members of cell
func (ps *PatternSet) entropy(members []int) float64 {
	sum := 0
	sumPlogP := 0.0
	for _, p := range members {
		sum += ps.Weights[p]
		sumPlogP += ps.plogp[p]
	}
	fs := float64(sum)
	return math.Log(fs) - sumPlogP/fs
}
