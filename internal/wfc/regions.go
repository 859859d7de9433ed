package wfc

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Region is one independent area to fill
type Region struct {
	Width, Height int
	Pins          []Pin
}

// NewPin builds a pin that restricts (x, y) to any of the given tiles
func (m *Model) NewPin(x, y int, tiles ...TileID) (Pin, error) {
	allowed, err := m.patterns.AllowedFor(tiles...)
	if err != nil {
		return Pin{}, err
	}
	return Pin{X: x, Y: y, Allowed: allowed}, nil
}

// GenerateRegions solves every region in parallel, each on its own solver
// with a random stream derived from the model seed and the region index.
// Results are returned in region order. The first failure cancels the
// remaining regions.
func (m *Model) GenerateRegions(ctx context.Context, regions []Region, maxAttempts int) ([]*Result, error) {
	results := make([]*Result, len(regions))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, r := range regions {
		g.Go(func() error {
			solver := newSolver(m.patterns, m.opts, deriveSeed(m.opts.seed, uint64(i)))
			res, err := solver.Solve(gCtx, r.Width, r.Height, maxAttempts, r.Pins)
			if err != nil {
				return fmt.Errorf("region %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
