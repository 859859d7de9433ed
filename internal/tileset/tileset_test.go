package tileset

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

func loadDungeon(t *testing.T) *Tileset {
	t.Helper()
	ts, err := Load("testdata/dungeon.yaml")
	require.NoError(t, err)
	return ts
}

func TestLoad(t *testing.T) {
	ts := loadDungeon(t)

	assert.Equal(t, "dungeon", ts.Name)
	assert.Equal(t, 2, ts.PatternSize)
	require.Len(t, ts.Legend, 3)

	images := ts.Grids()
	require.Len(t, images, 2)
	assert.Equal(t, 6, images[0].Width())
	assert.Equal(t, 4, images[0].Height())
	assert.Equal(t, 3, images[1].Width())

	v, err := images[0].Get(2, 3)
	require.NoError(t, err)
	assert.Equal(t, wfc.TileID(2), v)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	require.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"malformed":      "name: [",
		"no name":        "images: [{rows: [[0]]}]",
		"no images":      "name: x",
		"empty rows":     "name: x\nimages: [{rows: []}]",
		"ragged":         "name: x\nimages: [{rows: [[0, 1], [0]]}]",
		"too small":      "name: x\npattern_size: 3\nimages: [{rows: [[0, 1], [1, 0]]}]",
		"dup name":       "name: x\nlegend: [{name: a, id: 0}, {name: a, id: 1}]\nimages: [{rows: [[0]]}]",
		"dup id":         "name: x\nlegend: [{name: a, id: 0}, {name: b, id: 0}]\nimages: [{rows: [[0]]}]",
		"negative id":    "name: x\nlegend: [{name: a, id: -2}]\nimages: [{rows: [[-2]]}]",
		"long glyph":     "name: x\nlegend: [{name: a, id: 0, glyph: ab}]\nimages: [{rows: [[0]]}]",
		"not in legend":  "name: x\nlegend: [{name: a, id: 0}]\nimages: [{rows: [[0, 5]]}]",
		"negative size":  "name: x\npattern_size: -1\nimages: [{rows: [[0]]}]",
		"unnamed legend": "name: x\nlegend: [{id: 0}]\nimages: [{rows: [[0]]}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTileset), "got %v", err)
		})
	}
}

func TestParse_NoLegend(t *testing.T) {
	ts, err := Parse([]byte("name: raw\nimages: [{rows: [[0, 7], [7, 0]]}]"))
	require.NoError(t, err)

	id, err := ts.Lookup("7")
	require.NoError(t, err)
	assert.Equal(t, wfc.TileID(7), id)
	assert.Equal(t, '7', ts.Glyph(7))
	assert.Equal(t, '?', ts.Glyph(42))
}

func TestParse_EmptyTile(t *testing.T) {
	ts, err := Parse([]byte("name: holes\nlegend: [{name: void, id: -1}, {name: rock, id: 0, glyph: '#'}]\nimages: [{rows: [[-1, 0], [0, -1]]}]"))
	require.NoError(t, err)

	id, err := ts.Lookup("void")
	require.NoError(t, err)
	assert.Equal(t, wfc.EmptyTile, id)
	assert.Equal(t, ' ', ts.Glyph(wfc.EmptyTile))

	v, err := ts.Grids()[0].Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, wfc.EmptyTile, v)
}

func TestLookup(t *testing.T) {
	ts := loadDungeon(t)

	id, err := ts.Lookup("wall")
	require.NoError(t, err)
	assert.Equal(t, wfc.TileID(1), id)

	id, err = ts.Lookup("2")
	require.NoError(t, err)
	assert.Equal(t, wfc.TileID(2), id)

	_, err = ts.Lookup("lava")
	assert.ErrorIs(t, err, ErrUnknownTile)

	_, err = ts.Lookup("9")
	assert.ErrorIs(t, err, ErrUnknownTile)
}

func TestFingerprint(t *testing.T) {
	ts := loadDungeon(t)

	fp := ts.Fingerprint(2)
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, ts.Fingerprint(2))
	assert.NotEqual(t, fp, ts.Fingerprint(3))

	renamed := loadDungeon(t)
	renamed.Name = "other"
	renamed.Legend[0].Glyph = "_"
	assert.Equal(t, fp, renamed.Fingerprint(2), "names and glyphs must not change the fingerprint")

	changed := loadDungeon(t)
	changed.Images[1].Rows[0][1] = 1
	assert.NotEqual(t, fp, changed.Fingerprint(2))
}

func TestParsePin(t *testing.T) {
	ts := loadDungeon(t)

	pin, err := ts.ParsePin("3,4=wall")
	require.NoError(t, err)
	assert.Equal(t, Pin{X: 3, Y: 4, Tiles: []wfc.TileID{1}}, pin)

	pin, err = ts.ParsePin(" 0 , 1 = floor|2 ")
	require.NoError(t, err)
	assert.Equal(t, Pin{X: 0, Y: 1, Tiles: []wfc.TileID{0, 2}}, pin)

	for _, bad := range []string{"3,4", "3=wall", "a,1=wall", "1,b=wall", "1,1=", "1,1=|"} {
		_, err := ts.ParsePin(bad)
		assert.ErrorIs(t, err, ErrInvalidPin, bad)
	}

	_, err = ts.ParsePin("1,1=lava")
	assert.ErrorIs(t, err, ErrUnknownTile)
}

func TestRender(t *testing.T) {
	ts := loadDungeon(t)
	g, err := grid.FromRows([][]wfc.TileID{{1, 1, 1}, {1, 0, 2}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ts.Render(&buf, g))
	assert.Equal(t, "###\n#.+\n", buf.String())
}

func TestLearnFromTileset(t *testing.T) {
	ts := loadDungeon(t)

	m, err := wfc.Learn(ts.Grids(), ts.PatternSize, wfc.WithSeed(5))
	require.NoError(t, err)
	assert.Positive(t, m.Patterns().Len())
	// doors only sit on bottom rows, so no pattern starts with one
	assert.Equal(t, []wfc.TileID{0, 1}, m.Patterns().Tiles())

	wall, err := ts.Lookup("wall")
	require.NoError(t, err)
	require.NoError(t, m.SetTile(0, 0, wall))

	res, err := m.Generate(context.Background(), 2, 2, 5)
	if err != nil {
		require.ErrorIs(t, err, wfc.ErrNoSolution)
		return
	}
	v, err := res.Tiles.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, wall, v)

	var buf bytes.Buffer
	require.NoError(t, ts.Render(&buf, res.Tiles))
	assert.True(t, strings.HasPrefix(buf.String(), "#"))
}

func TestShippedTilesets(t *testing.T) {
	for _, name := range []string{"dungeon", "island"} {
		t.Run(name, func(t *testing.T) {
			ts, err := Load("../../data/tilesets/" + name + ".yaml")
			require.NoError(t, err)
			_, err = wfc.Learn(ts.Grids(), ts.PatternSize)
			require.NoError(t, err)
		})
	}
}
