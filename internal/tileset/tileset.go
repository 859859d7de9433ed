// Package tileset loads training tilesets and reads and writes generated map documents.
package tileset

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

var (
	// ErrInvalidTileset is returned when a tileset file fails validation
	ErrInvalidTileset = errors.New("tileset: invalid tileset")
	// ErrUnknownTile is returned when a name or id is not in the legend
	ErrUnknownTile = errors.New("tileset: unknown tile")
	// ErrInvalidPin is returned for a malformed pin expression
	ErrInvalidPin = errors.New("tileset: invalid pin")
)

// Tileset is a named set of training images sharing one tile legend.
type Tileset struct {
	Name string `yaml:"name" validate:"required"`

	// PatternSize is the preferred N for this tileset. 0 defers to configuration.
	PatternSize int `yaml:"pattern_size" validate:"min=0"`

	Legend []Tile  `yaml:"legend" validate:"dive"`
	Images []Image `yaml:"images" validate:"required,min=1,dive"`

	byName map[string]wfc.TileID
	byID   map[wfc.TileID]Tile
}

// Tile names one tile id and the glyph used to draw it. Id -1 is
// wfc.EmptyTile.
type Tile struct {
	Name  string     `yaml:"name" validate:"required"`
	ID    wfc.TileID `yaml:"id" validate:"min=-1"`
	Glyph string     `yaml:"glyph"`
}

// Image is one training example, stored row by row.
type Image struct {
	Name string         `yaml:"name"`
	Rows [][]wfc.TileID `yaml:"rows" validate:"required,min=1"`
}

var validate = validator.New()

// Load reads and validates a tileset file.
func Load(path string) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tileset: read %s: %w", path, err)
	}
	ts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// Parse decodes and validates a tileset document.
func Parse(data []byte) (*Tileset, error) {
	var ts Tileset
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTileset, err)
	}
	if err := ts.validate(); err != nil {
		return nil, err
	}
	return &ts, nil
}

func (ts *Tileset) validate() error {
	if err := validate.Struct(ts); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTileset, err)
	}

	ts.byName = make(map[string]wfc.TileID, len(ts.Legend))
	ts.byID = make(map[wfc.TileID]Tile, len(ts.Legend))
	for _, t := range ts.Legend {
		if _, dup := ts.byName[t.Name]; dup {
			return fmt.Errorf("%w: duplicate legend name %q", ErrInvalidTileset, t.Name)
		}
		if _, dup := ts.byID[t.ID]; dup {
			return fmt.Errorf("%w: duplicate legend id %d", ErrInvalidTileset, t.ID)
		}
		if utf8.RuneCountInString(t.Glyph) > 1 {
			return fmt.Errorf("%w: glyph %q for %q must be a single character", ErrInvalidTileset, t.Glyph, t.Name)
		}
		ts.byName[t.Name] = t.ID
		ts.byID[t.ID] = t
	}

	for i, img := range ts.Images {
		g, err := grid.FromRows(img.Rows)
		if err != nil {
			return fmt.Errorf("%w: image %d (%s): %v", ErrInvalidTileset, i, img.Name, err)
		}
		if ts.PatternSize > 0 && (g.Width() < ts.PatternSize || g.Height() < ts.PatternSize) {
			return fmt.Errorf("%w: image %d (%s) is %dx%d, smaller than pattern size %d",
				ErrInvalidTileset, i, img.Name, g.Width(), g.Height(), ts.PatternSize)
		}
		if len(ts.byID) == 0 {
			continue
		}
		for c := range g.All() {
			if _, ok := ts.byID[c.Value]; !ok {
				return fmt.Errorf("%w: image %d (%s) uses tile %d at (%d,%d) missing from legend",
					ErrInvalidTileset, i, img.Name, c.Value, c.X, c.Y)
			}
		}
	}
	return nil
}

// Grids returns the training images as grids.
func (ts *Tileset) Grids() []*grid.Grid[wfc.TileID] {
	out := make([]*grid.Grid[wfc.TileID], 0, len(ts.Images))
	for _, img := range ts.Images {
		// validated in Parse
		g, _ := grid.FromRows(img.Rows)
		out = append(out, g)
	}
	return out
}

// Lookup resolves a legend name or a decimal tile id.
func (ts *Tileset) Lookup(name string) (wfc.TileID, error) {
	if id, ok := ts.byName[name]; ok {
		return id, nil
	}
	n, err := strconv.ParseInt(name, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTile, name)
	}
	id := wfc.TileID(n)
	if len(ts.byID) > 0 {
		if _, ok := ts.byID[id]; !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownTile, id)
		}
	}
	return id, nil
}

// Glyph returns the drawing character for id, or '?' when it has none.
// The empty tile draws as a space unless the legend gives it a glyph.
func (ts *Tileset) Glyph(id wfc.TileID) rune {
	if t, ok := ts.byID[id]; ok && t.Glyph != "" {
		r, _ := utf8.DecodeRuneInString(t.Glyph)
		return r
	}
	if id == wfc.EmptyTile {
		return ' '
	}
	if id >= 0 && id < 10 {
		return rune('0' + id)
	}
	return '?'
}

// Fingerprint hashes the pattern size and the training images with
// BLAKE2b-256. Names and glyphs do not affect it.
func (ts *Tileset) Fingerprint(patternSize int) string {
	h, _ := blake2b.New256(nil)
	var buf [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}

	put(uint32(patternSize))
	put(uint32(len(ts.Images)))
	for _, img := range ts.Images {
		put(uint32(len(img.Rows)))
		put(uint32(len(img.Rows[0])))
		for _, row := range img.Rows {
			for _, t := range row {
				put(uint32(t))
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Pin is a parsed pin expression.
type Pin struct {
	X, Y  int
	Tiles []wfc.TileID
}

// ParsePin parses "x,y=tile[|tile...]" where each tile is a legend name or id.
func (ts *Tileset) ParsePin(s string) (Pin, error) {
	coord, tiles, ok := strings.Cut(s, "=")
	if !ok {
		return Pin{}, fmt.Errorf("%w: %q: want x,y=tile", ErrInvalidPin, s)
	}
	xs, ys, ok := strings.Cut(coord, ",")
	if !ok {
		return Pin{}, fmt.Errorf("%w: %q: want x,y=tile", ErrInvalidPin, s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Pin{}, fmt.Errorf("%w: %q: bad x: %v", ErrInvalidPin, s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Pin{}, fmt.Errorf("%w: %q: bad y: %v", ErrInvalidPin, s, err)
	}

	pin := Pin{X: x, Y: y}
	for _, name := range strings.Split(tiles, "|") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, err := ts.Lookup(name)
		if err != nil {
			return Pin{}, err
		}
		pin.Tiles = append(pin.Tiles, id)
	}
	if len(pin.Tiles) == 0 {
		return Pin{}, fmt.Errorf("%w: %q: no tiles", ErrInvalidPin, s)
	}
	return pin, nil
}
