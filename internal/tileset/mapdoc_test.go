package tileset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

func TestWriteMap(t *testing.T) {
	g, err := grid.FromRows([][]wfc.TileID{{1, 1, 1}, {1, 0, 2}})
	require.NoError(t, err)
	doc := NewMapDocument("dungeon", "0123", g, -7, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, doc))

	want := strings.Join([]string{
		`tileset: dungeon`,
		`model: "0123"`,
		`width: 3`,
		`height: 2`,
		`seed: -7`,
		`attempts: 3`,
		`rows:`,
		`  - [1, 1, 1]`,
		`  - [1, 0, 2]`,
		``,
	}, "\n")
	assert.Equal(t, want, buf.String())

	back, err := ReadMap(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, back)

	bg, err := back.Grid()
	require.NoError(t, err)
	assert.Equal(t, g.Rows(), bg.Rows())
}

func TestReadMap_Invalid(t *testing.T) {
	cases := map[string]string{
		"malformed":   "rows: [",
		"no rows":     "width: 1\nheight: 1\n",
		"ragged":      "width: 2\nheight: 2\nrows: [[1, 1], [1]]\n",
		"wrong width": "width: 3\nheight: 1\nrows: [[1, 1]]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMap(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidMap)
		})
	}
}
