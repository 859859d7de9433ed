package tileset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

// ErrInvalidMap is returned when a map document is malformed
var ErrInvalidMap = errors.New("tileset: invalid map document")

// MapDocument is a generated map as written to disk.
type MapDocument struct {
	Tileset  string         `yaml:"tileset"`
	Model    string         `yaml:"model"`
	Width    int            `yaml:"width"`
	Height   int            `yaml:"height"`
	Seed     int64          `yaml:"seed"`
	Attempts int            `yaml:"attempts"`
	Rows     [][]wfc.TileID `yaml:"rows"`
}

// NewMapDocument captures a solved grid.
func NewMapDocument(tilesetName, fingerprint string, tiles *grid.Grid[wfc.TileID], seed int64, attempts int) *MapDocument {
	return &MapDocument{
		Tileset:  tilesetName,
		Model:    fingerprint,
		Width:    tiles.Width(),
		Height:   tiles.Height(),
		Seed:     seed,
		Attempts: attempts,
		Rows:     tiles.Rows(),
	}
}

// Grid returns the document's tiles as a grid.
func (d *MapDocument) Grid() (*grid.Grid[wfc.TileID], error) {
	g, err := grid.FromRows(d.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if g.Width() != d.Width || g.Height() != d.Height {
		return nil, fmt.Errorf("%w: rows are %dx%d, header says %dx%d",
			ErrInvalidMap, g.Width(), g.Height(), d.Width, d.Height)
	}
	return g, nil
}

// WriteMap encodes doc with fields in a fixed order and one flow-style
// sequence per row, so the file reads like the map itself.
func WriteMap(w io.Writer, doc *MapDocument) error {
	node := &yaml.Node{Kind: yaml.MappingNode}
	addScalar(node, "tileset", doc.Tileset, "!!str")
	addScalar(node, "model", doc.Model, "!!str")
	addScalar(node, "width", strconv.Itoa(doc.Width), "!!int")
	addScalar(node, "height", strconv.Itoa(doc.Height), "!!int")
	addScalar(node, "seed", strconv.FormatInt(doc.Seed, 10), "!!int")
	addScalar(node, "attempts", strconv.Itoa(doc.Attempts), "!!int")

	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range doc.Rows {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, t := range row {
			seq.Content = append(seq.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!int",
				Value: strconv.FormatInt(int64(t), 10),
			})
		}
		rows.Content = append(rows.Content, seq)
	}
	node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "rows"}, rows)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("tileset: encode map: %w", err)
	}
	return enc.Close()
}

func addScalar(node *yaml.Node, key, value, tag string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
	)
}

// ReadMap decodes a map document and checks its rows against the header.
func ReadMap(r io.Reader) (*MapDocument, error) {
	var doc MapDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if _, err := doc.Grid(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Render draws tiles one glyph per cell, one line per row.
func (ts *Tileset) Render(w io.Writer, tiles *grid.Grid[wfc.TileID]) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < tiles.Height(); y++ {
		for _, t := range tiles.Row(y) {
			bw.WriteRune(ts.Glyph(t))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
