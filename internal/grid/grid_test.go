package grid_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
)

func TestFromRowsErrors(t *testing.T) {
	cases := []struct {
		name string
		rows [][]int
		err  error
	}{
		{"EmptyRows", [][]int{}, grid.ErrEmptyGrid},
		{"EmptyCols", [][]int{{}}, grid.ErrEmptyGrid},
		{"NonRectangular", [][]int{{1, 2}, {3}}, grid.ErrNonRectangular},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.FromRows(tc.rows)
			if !errors.Is(err, tc.err) {
				t.Errorf("FromRows(%v) error = %v; want %v", tc.rows, err, tc.err)
			}
		})
	}
}

func TestRowMajorLayout(t *testing.T) {
	g, err := grid.FromRows([][]int{
		{0, 1, 2},
		{3, 4, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, 6, g.Len())

	for i := 0; i < g.Len(); i++ {
		assert.Equal(t, i, g.At(i))
		x, y := g.Coordinate(i)
		assert.Equal(t, i, g.Index(x, y))
	}

	v, err := g.Get(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestBoundsChecks(t *testing.T) {
	g := grid.New[int](3, 2)
	for _, xy := range [][2]int{{-1, 0}, {3, 0}, {0, 2}, {0, -1}} {
		assert.False(t, g.InBounds(xy[0], xy[1]))
		_, err := g.Get(xy[0], xy[1])
		assert.ErrorIs(t, err, grid.ErrOutOfBounds)
		assert.ErrorIs(t, g.Set(xy[0], xy[1], 1), grid.ErrOutOfBounds)
	}
	require.NoError(t, g.Set(2, 1, 9))
	assert.Equal(t, 9, g.At(5))
}

func TestAllIsLiveRowMajorView(t *testing.T) {
	g := grid.New[int](2, 2)
	var seen []grid.Cell[int]
	for c := range g.All() {
		if c.Index == 0 {
			g.SetAt(3, 7)
		}
		seen = append(seen, c)
	}
	require.Len(t, seen, 4)
	assert.Equal(t, grid.Cell[int]{Value: 0, X: 1, Y: 0, Index: 1}, seen[1])
	assert.Equal(t, grid.Cell[int]{Value: 7, X: 1, Y: 1, Index: 3}, seen[3])
}

func TestAllStopsEarly(t *testing.T) {
	g := grid.New[int](4, 4)
	n := 0
	for range g.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestRowsAndMap(t *testing.T) {
	g, err := grid.FromRows([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)
	doubled := grid.Map(g, func(v int) int { return v * 2 })
	assert.Equal(t, [][]int{{2, 4}, {6, 8}}, doubled.Rows())

	rows := g.Rows()
	rows[0][0] = 100
	assert.Equal(t, 1, g.At(0), "Rows must copy")
}

func TestFill(t *testing.T) {
	g := grid.New[string](2, 3)
	g.Fill("x")
	for c := range g.All() {
		assert.Equal(t, "x", c.Value)
	}
}
