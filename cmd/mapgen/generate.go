package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blytheSchen/SketchTiler-sub000/internal/database"
	"github.com/blytheSchen/SketchTiler-sub000/internal/logger"
	"github.com/blytheSchen/SketchTiler-sub000/internal/tileset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

type generateFlags struct {
	tileset     string
	patternSize int
	width       int
	height      int
	attempts    int
	seed        int64
	heuristic   string
	pins        []string
	count       int
	out         string
	save        bool
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a map from a tileset",
		Long: `Generate learns patterns from a tileset and fills a new map with them.

Pins fix cells before solving: --pin 3,0=wall restricts (3,0) to the wall
tile and --pin 0,0=floor|door allows either. Tiles are legend names or ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.tileset, "tileset", "", "Path to tileset YAML file")
	flags.IntVarP(&f.patternSize, "pattern-size", "n", 0, "Pattern size N (default: tileset, then config)")
	flags.IntVar(&f.width, "width", 0, "Map width in tiles (default: config)")
	flags.IntVar(&f.height, "height", 0, "Map height in tiles (default: config)")
	flags.IntVar(&f.attempts, "attempts", 0, "Maximum solve attempts (default: config)")
	flags.Int64Var(&f.seed, "seed", 0, "Random seed (default: config, 0 picks one from the clock)")
	flags.StringVar(&f.heuristic, "heuristic", "", "Cell selection: entropy or lexical (default: config)")
	flags.StringArrayVar(&f.pins, "pin", nil, "Pin x,y=tile[|tile...] (repeatable)")
	flags.IntVar(&f.count, "count", 1, "Number of maps to generate in parallel")
	flags.StringVarP(&f.out, "out", "o", "", "Write the map document to this YAML file")
	flags.BoolVar(&f.save, "save", false, "Store the map in the database")
	_ = cmd.MarkFlagRequired("tileset")
	return cmd
}

// applyDefaults fills unset flags from the generator config.
func (f *generateFlags) applyDefaults(a *app) {
	g := a.cfg.Generator
	if f.width == 0 {
		f.width = g.Width
	}
	if f.height == 0 {
		f.height = g.Height
	}
	if f.attempts == 0 {
		f.attempts = g.MaxAttempts
	}
	if f.seed == 0 {
		f.seed = g.Seed
	}
	if f.heuristic == "" {
		f.heuristic = g.Heuristic
	}
}

func (a *app) runGenerate(cmd *cobra.Command, f *generateFlags) error {
	f.applyDefaults(a)
	if f.count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", f.count)
	}
	heuristic, err := wfc.ParseHeuristic(f.heuristic)
	if err != nil {
		return err
	}

	ts, n, err := a.loadTileset(f.tileset, f.patternSize)
	if err != nil {
		return err
	}

	m, err := wfc.Learn(ts.Grids(), n,
		wfc.WithSeed(f.seed),
		wfc.WithHeuristic(heuristic),
		wfc.WithObserver(a.observer()),
	)
	if err != nil {
		return fmt.Errorf("learn %s: %w", ts.Name, err)
	}

	pins := make([]tileset.Pin, 0, len(f.pins))
	for _, expr := range f.pins {
		p, err := ts.ParsePin(expr)
		if err != nil {
			return err
		}
		pins = append(pins, p)
	}

	logger.Info("Generating",
		"tileset", ts.Name,
		"width", f.width,
		"height", f.height,
		"count", f.count,
		"seed", m.Seed(),
		"heuristic", heuristic,
	)

	results, err := generateMaps(cmd, m, pins, f)
	if err != nil {
		return err
	}

	fingerprint := ts.Fingerprint(n)
	var db *database.Database
	if f.save {
		if err := a.saveModel(cmd.Context(), ts, n, m.Patterns()); err != nil {
			return err
		}
		if db, err = a.openDB(); err != nil {
			return err
		}
		defer db.Close()
	}

	out := cmd.OutOrStdout()
	for i, res := range results {
		doc := tileset.NewMapDocument(ts.Name, fingerprint, res.Tiles, res.Seed, res.Attempts)

		fmt.Fprintf(out, "# map %d/%d seed=%d attempts=%d\n", i+1, len(results), res.Seed, res.Attempts)
		if err := ts.Render(out, res.Tiles); err != nil {
			return err
		}

		if f.out != "" {
			path := mapPath(f.out, i, len(results))
			if err := writeMapFile(path, doc); err != nil {
				return err
			}
			logger.Info("Map written", "path", path)
		}

		if db != nil {
			rec, err := db.SaveMap(cmd.Context(), database.MapRecord{
				ModelFingerprint: fingerprint,
				Width:            doc.Width,
				Height:           doc.Height,
				Seed:             res.Seed,
				Attempts:         res.Attempts,
				Tiles:            flattenTiles(doc),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "saved map %s\n", rec.ID)
		}
	}
	return nil
}

// generateMaps solves one map on the model itself, or several in parallel
// as independent regions.
func generateMaps(cmd *cobra.Command, m *wfc.Model, pins []tileset.Pin, f *generateFlags) ([]*wfc.Result, error) {
	if f.count == 1 {
		defer m.ClearPins()
		for _, p := range pins {
			if err := m.SetTile(p.X, p.Y, p.Tiles...); err != nil {
				return nil, fmt.Errorf("pin (%d,%d): %w", p.X, p.Y, err)
			}
		}
		res, err := m.Generate(cmd.Context(), f.width, f.height, f.attempts)
		if err != nil {
			return nil, err
		}
		return []*wfc.Result{res}, nil
	}

	wfcPins := make([]wfc.Pin, 0, len(pins))
	for _, p := range pins {
		pin, err := m.NewPin(p.X, p.Y, p.Tiles...)
		if err != nil {
			return nil, fmt.Errorf("pin (%d,%d): %w", p.X, p.Y, err)
		}
		wfcPins = append(wfcPins, pin)
	}
	regions := make([]wfc.Region, f.count)
	for i := range regions {
		regions[i] = wfc.Region{Width: f.width, Height: f.height, Pins: wfcPins}
	}
	return m.GenerateRegions(cmd.Context(), regions, f.attempts)
}

// mapPath returns the output path for map i of count.
func mapPath(out string, i, count int) string {
	if count == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(out, ext), i+1, ext)
}

func writeMapFile(path string, doc *tileset.MapDocument) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := tileset.WriteMap(file, doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func flattenTiles(doc *tileset.MapDocument) []int32 {
	tiles := make([]int32, 0, doc.Width*doc.Height)
	for _, row := range doc.Rows {
		for _, t := range row {
			tiles = append(tiles, int32(t))
		}
	}
	return tiles
}
