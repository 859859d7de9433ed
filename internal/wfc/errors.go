package wfc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSolution is returned when every attempt ended in a contradiction
	ErrNoSolution = errors.New("wfc: no solution within attempt budget")
	// ErrPinContradiction is returned when pinned cells cannot all be satisfied
	ErrPinContradiction = errors.New("wfc: pinned tiles contradict each other")
	// ErrInvalidSize is returned for non-positive output dimensions
	ErrInvalidSize = errors.New("wfc: invalid grid size")
	// ErrInvalidAttempts is returned for a non-positive attempt budget
	ErrInvalidAttempts = errors.New("wfc: max attempts must be at least 1")
	// ErrInvalidPatternSize is returned when N is below 1 or larger than a training image
	ErrInvalidPatternSize = errors.New("wfc: invalid pattern size")
	// ErrNoPatterns is returned when solving with an empty pattern set
	ErrNoPatterns = errors.New("wfc: no patterns learned")
	// ErrUnknownTile is returned when pinning a tile id the model never saw
	ErrUnknownTile = errors.New("wfc: unknown tile")
	// ErrPinOutOfBounds is returned when a pin lies outside the output grid
	ErrPinOutOfBounds = errors.New("wfc: pin out of bounds")
	// ErrOptionViolation is returned when an option carries an invalid value
	ErrOptionViolation = errors.New("wfc: invalid option")
)

// PinError reports the cell at which pin application hit a contradiction
type PinError struct {
	X, Y int
}

func (e *PinError) Error() string {
	return fmt.Sprintf("wfc: pinned tiles contradict each other at (%d,%d)", e.X, e.Y)
}

// Is lets errors.Is match ErrPinContradiction
func (e *PinError) Is(target error) bool {
	return target == ErrPinContradiction
}

// UnknownTileError names the tile id that has no learned pattern
type UnknownTileError struct {
	Tile TileID
}

func (e *UnknownTileError) Error() string {
	return fmt.Sprintf("wfc: unknown tile %s", e.Tile)
}

// Is lets errors.Is match ErrUnknownTile
func (e *UnknownTileError) Is(target error) bool {
	return target == ErrUnknownTile
}
