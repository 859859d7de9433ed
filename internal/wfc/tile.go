package wfc

import "fmt"

// TileID identifies a tile in a tileset. Ids are small non-negative integers
type TileID int32

// EmptyTile marks a cell with no tile
const EmptyTile TileID = -1

// String returns the string representation of a TileID
func (t TileID) String() string {
	if t == EmptyTile {
		return "empty"
	}
	return fmt.Sprintf("%d", int32(t))
}

// Direction represents a cardinal direction in the grid
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Offset returns the (dx, dy) step of a direction, with y growing south
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// directions is iterated on the propagation hot path
var directions = [4]Direction{North, East, South, West}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// Pattern is an N×N block of tiles stored row-major
type Pattern []TileID

// At returns the tile at (x, y) within an n-wide pattern
func (p Pattern) At(n, x, y int) TileID {
	return p[y*n+x]
}

// TopLeft returns the tile a collapsed cell emits
func (p Pattern) TopLeft() TileID {
	return p[0]
}

// key encodes the pattern for deduplication by value
func (p Pattern) key() string {
	b := make([]byte, 0, len(p)*4)
	for _, t := range p {
		v := uint32(t)
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return string(b)
}
