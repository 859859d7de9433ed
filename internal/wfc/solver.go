package wfc

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/blytheSchen/SketchTiler-sub000/internal/bitset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
	"github.com/blytheSchen/SketchTiler-sub000/internal/queue"
)

// Pin restricts one output cell to a set of patterns before solving
type Pin struct {
	X, Y    int
	Allowed *bitset.Bitset
}

// Result is a solved tile map
type Result struct {
	Tiles    *grid.Grid[TileID]
	Attempts int
	Seed     int64
}

// Solver fills an output grid from a PatternSet. A Solver is not safe for
// concurrent use; run one per goroutine and share the PatternSet.
type Solver struct {
	ps       *PatternSet
	cells    CellSelector
	picker   PatternSelector
	newQueue queue.Factory
	observer Observer
	rng      *rand.Rand
	seed     int64

	// per-solve state
	wave    *grid.Grid[*bitset.Bitset]
	queue   queue.Queue
	queued  []bool
	allowed *bitset.Bitset
	members []int
	attempt int
}

// NewSolver creates a solver over ps
func NewSolver(ps *PatternSet, opts ...Option) (*Solver, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return newSolver(ps, o, o.seed), nil
}

func newSolver(ps *PatternSet, o options, seed int64) *Solver {
	return &Solver{
		ps:       ps,
		cells:    o.newCellSelector(),
		picker:   o.newPattern(),
		newQueue: o.newQueue,
		observer: o.observer,
		rng:      newRand(seed),
		seed:     seed,
		allowed:  bitset.New(ps.Len()),
	}
}

// Seed returns the seed the solver's random source started from
func (s *Solver) Seed() int64 {
	return s.seed
}

// Reseed restarts the random source from seed
func (s *Solver) Reseed(seed int64) {
	s.seed = seed
	s.rng = newRand(seed)
}

// Wave returns the possibility matrix of the most recent attempt
func (s *Solver) Wave() *grid.Grid[*bitset.Bitset] {
	return s.wave
}

// Solve fills a width×height grid, restarting from scratch after every
// contradiction until maxAttempts attempts have been made. A contradiction
// while applying pins is returned immediately as a *PinError.
func (s *Solver) Solve(ctx context.Context, width, height, maxAttempts int, pins []Pin) (res *Result, err error) {
	if s.ps.Len() == 0 {
		return nil, ErrNoPatterns
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAttempts, maxAttempts)
	}
	for _, p := range pins {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrPinOutOfBounds, p.X, p.Y, width, height)
		}
	}

	ctx = s.observer.SolveStarted(ctx, width, height, s.ps.Len())
	defer func() {
		s.observer.SolveFinished(ctx, s.attempt, err)
	}()

	s.prepare(width, height)
	for s.attempt = 1; s.attempt <= maxAttempts; s.attempt++ {
		s.observer.AttemptStarted(ctx, s.attempt)
		s.reset()
		if err := s.applyPins(ctx, pins); err != nil {
			return nil, err
		}
		solved, err := s.run(ctx)
		if err != nil {
			return nil, err
		}
		if solved {
			return &Result{Tiles: s.output(), Attempts: s.attempt, Seed: s.seed}, nil
		}
	}
	s.attempt = maxAttempts
	return nil, fmt.Errorf("%w: gave up after %d attempts", ErrNoSolution, maxAttempts)
}

// prepare sizes the propagation queue for one pair per cell
func (s *Solver) prepare(width, height int) {
	cells := width * height
	if s.queue == nil || len(s.queued) != cells {
		s.queue = s.newQueue(2 * cells)
		s.queued = make([]bool, cells)
	}
	s.wave = grid.New[*bitset.Bitset](width, height)
}

// reset starts an attempt on a fresh wave with every pattern possible
func (s *Solver) reset() {
	s.wave = grid.New[*bitset.Bitset](s.wave.Width(), s.wave.Height())
	for i := 0; i < s.wave.Len(); i++ {
		b := bitset.New(s.ps.Len())
		b.Fill()
		s.wave.SetAt(i, b)
	}
	s.drain()
}

func (s *Solver) applyPins(ctx context.Context, pins []Pin) error {
	for _, p := range pins {
		cell := s.wave.At(s.wave.Index(p.X, p.Y))
		cell.IntersectWith(p.Allowed)
		if cell.IsEmpty() {
			s.observer.Contradicted(ctx, s.attempt, p.X, p.Y)
			return &PinError{X: p.X, Y: p.Y}
		}
		if x, y, ok := s.propagate(p.X, p.Y); !ok {
			s.observer.Contradicted(ctx, s.attempt, x, y)
			return &PinError{X: x, Y: y}
		}
	}
	return nil
}

// run observes and propagates until the wave is resolved or a contradiction occurs
func (s *Solver) run(ctx context.Context) (bool, error) {
	s.cells.Reset()
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		i := s.cells.Next(s.wave, s.ps, s.rng)
		if i < 0 {
			return true, nil
		}
		cell := s.wave.At(i)
		p := s.picker.Pick(cell, s.ps, s.rng)
		cell.ClearAll()
		cell.Set(p)

		x, y := s.wave.Coordinate(i)
		s.observer.Collapsed(ctx, x, y, p)
		if cx, cy, ok := s.propagate(x, y); !ok {
			s.observer.Contradicted(ctx, s.attempt, cx, cy)
			return false, nil
		}
	}
}

// propagate narrows neighbors breadth-first from (x, y). On contradiction it
// returns the emptied cell and false.
func (s *Solver) propagate(x, y int) (int, int, bool) {
	s.enqueue(x, y)
	for s.queue.Len() > 0 {
		cx, cy := queue.PopPair(s.queue)
		ci := s.wave.Index(cx, cy)
		s.queued[ci] = false
		s.members = s.wave.At(ci).AppendIndices(s.members[:0])

		for _, d := range directions {
			dx, dy := d.Offset()
			nx, ny := cx+dx, cy+dy
			if !s.wave.InBounds(nx, ny) {
				continue
			}
			s.allowed.ClearAll()
			for _, p := range s.members {
				s.allowed.UnionWith(s.ps.Rules.Allowed(p, d))
			}
			neighbor := s.wave.At(s.wave.Index(nx, ny))
			if !neighbor.IntersectWith(s.allowed) {
				continue
			}
			if neighbor.IsEmpty() {
				s.drain()
				return nx, ny, false
			}
			s.enqueue(nx, ny)
		}
	}
	return 0, 0, true
}

// enqueue schedules a cell unless it is already waiting, which bounds the
// queue at one pair per cell
func (s *Solver) enqueue(x, y int) {
	i := s.wave.Index(x, y)
	if s.queued[i] {
		return
	}
	s.queued[i] = true
	queue.PushPair(s.queue, x, y)
}

func (s *Solver) drain() {
	s.queue.Reset()
	clear(s.queued)
}

// output maps every resolved cell to its pattern's top-left tile
func (s *Solver) output() *grid.Grid[TileID] {
	return grid.Map(s.wave, func(b *bitset.Bitset) TileID {
		return s.ps.Patterns[b.First()].TopLeft()
	})
}
