package wfc

import (
	"context"
	"fmt"

	"github.com/blytheSchen/SketchTiler-sub000/internal/bitset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
)

// Model pairs a learned PatternSet with the pins for the next generation.
// A Model owns one Solver and is not safe for concurrent use; use
// GenerateRegions to solve in parallel.
type Model struct {
	patterns *PatternSet
	opts     options
	solver   *Solver
	pins     []Pin
	next     int64
}

// generationStream separates the seeds of successive Generate calls from
// the per-region streams of GenerateRegions.
const generationStream = 1 << 63

// Learn builds a model from training images with pattern size n. n must be
// at least 1 and no larger than the smallest image dimension.
func Learn(images []*grid.Grid[TileID], n int, opts ...Option) (*Model, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPatternSize, n)
	}
	for i, img := range images {
		if img.Width() < n || img.Height() < n {
			return nil, fmt.Errorf("%w: %d exceeds image %d (%dx%d)", ErrInvalidPatternSize, n, i, img.Width(), img.Height())
		}
	}
	ps, err := LearnPatterns(images, n)
	if err != nil {
		return nil, err
	}
	return NewModel(ps, opts...)
}

// NewModel wraps an already learned PatternSet
func NewModel(ps *PatternSet, opts ...Option) (*Model, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Model{
		patterns: ps,
		opts:     o,
		solver:   newSolver(ps, o, o.seed),
		next:     o.seed,
	}, nil
}

// Patterns returns the learned pattern set
func (m *Model) Patterns() *PatternSet {
	return m.patterns
}

// Seed returns the model's base seed. It is also the seed of the first
// Generate call; later calls report their own seed in Result.Seed.
func (m *Model) Seed() int64 {
	return m.opts.seed
}

// SetTile pins cell (x, y) to any of the given tiles. Bounds are checked
// when Generate knows the output size.
func (m *Model) SetTile(x, y int, tiles ...TileID) error {
	allowed, err := m.patterns.AllowedFor(tiles...)
	if err != nil {
		return err
	}
	m.pins = append(m.pins, Pin{X: x, Y: y, Allowed: allowed})
	return nil
}

// Pins returns the pending pins
func (m *Model) Pins() []Pin {
	return m.pins
}

// ClearPins drops every pending pin
func (m *Model) ClearPins() {
	m.pins = nil
}

// Generate solves a width×height grid honoring the pending pins. Pins stay
// in place until ClearPins is called. Every call runs from its own seed,
// reported in Result.Seed: a new model built WithSeed(Result.Seed) produces
// the same map on its first Generate.
func (m *Model) Generate(ctx context.Context, width, height, maxAttempts int) (*Result, error) {
	seed := m.next
	m.next = deriveSeed(seed, generationStream)
	if m.next == 0 {
		// zero would mean "pick from the clock" when replayed
		m.next = deriveSeed(m.next, generationStream)
	}
	m.solver.Reseed(seed)
	return m.solver.Solve(ctx, width, height, maxAttempts, m.pins)
}

// Wave exposes the possibility matrix of the last attempt
func (m *Model) Wave() *grid.Grid[*bitset.Bitset] {
	return m.solver.Wave()
}
