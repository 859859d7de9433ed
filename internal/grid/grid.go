// Package grid provides a fixed-size rectangular container stored row-major
// in a single flat slice.
//
// Cell (x, y) lives at index y*Width + x. The element type is a type
// parameter, so the solver's possibility matrix (Grid[*bitset.Bitset]) holds
// pointers while tile maps (Grid[TileID]) keep their ids unboxed in a
// contiguous numeric slice.
package grid

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrOutOfBounds indicates a coordinate outside the grid.
	ErrOutOfBounds = errors.New("grid: coordinate out of bounds")
	// ErrEmptyGrid indicates input rows with no rows or no columns.
	ErrEmptyGrid = errors.New("grid: input must have at least one row and one column")
	// ErrNonRectangular indicates input rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
)

// Grid is a width×height matrix of T.
type Grid[T any] struct {
	width  int
	height int
	cells  []T
}

// Cell is one element yielded by All.
type Cell[T any] struct {
	Value T
	X, Y  int
	Index int
}

// New allocates a zero-valued grid. Non-positive dimensions yield an empty grid.
func New[T any](width, height int) *Grid[T] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid[T]{width: width, height: height, cells: make([]T, width*height)}
}

// FromRows copies a rectangular [][]T (rows indexed by y) into a new grid.
func FromRows[T any](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	g := New[T](len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(row), g.width, ErrNonRectangular)
		}
		copy(g.cells[y*g.width:], row)
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Len returns width*height.
func (g *Grid[T]) Len() int { return len(g.cells) }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Index maps (x, y) to its flat offset. The caller must ensure InBounds.
func (g *Grid[T]) Index(x, y int) int { return y*g.width + x }

// Coordinate maps a flat offset back to (x, y).
func (g *Grid[T]) Coordinate(i int) (x, y int) { return i % g.width, i / g.width }

// Get returns the value at (x, y).
func (g *Grid[T]) Get(x, y int) (T, error) {
	if !g.InBounds(x, y) {
		var zero T
		return zero, fmt.Errorf("(%d,%d) in %dx%d: %w", x, y, g.width, g.height, ErrOutOfBounds)
	}
	return g.cells[y*g.width+x], nil
}

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("(%d,%d) in %dx%d: %w", x, y, g.width, g.height, ErrOutOfBounds)
	}
	g.cells[y*g.width+x] = v
	return nil
}

// At returns the value at flat index i. It panics when i is out of range,
// like a slice access.
func (g *Grid[T]) At(i int) T { return g.cells[i] }

// SetAt stores v at flat index i.
func (g *Grid[T]) SetAt(i int, v T) { g.cells[i] = v }

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// All yields every cell in row-major order. The sequence reads the live
// grid, so writes made during iteration are visible to later cells.
func (g *Grid[T]) All() iter.Seq[Cell[T]] {
	return func(yield func(Cell[T]) bool) {
		for i := range g.cells {
			if !yield(Cell[T]{Value: g.cells[i], X: i % g.width, Y: i / g.width, Index: i}) {
				return
			}
		}
	}
}

// Row returns a copy of row y.
func (g *Grid[T]) Row(y int) []T {
	out := make([]T, g.width)
	copy(out, g.cells[y*g.width:(y+1)*g.width])
	return out
}

// Rows returns a copy of the grid as [][]T indexed by y.
func (g *Grid[T]) Rows() [][]T {
	rows := make([][]T, g.height)
	for y := range rows {
		rows[y] = g.Row(y)
	}
	return rows
}

// Map builds a new grid by applying fn to every cell of g.
func Map[T, U any](g *Grid[T], fn func(T) U) *Grid[U] {
	out := New[U](g.width, g.height)
	for i, v := range g.cells {
		out.cells[i] = fn(v)
	}
	return out
}
