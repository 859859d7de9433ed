package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blytheSchen/SketchTiler-sub000/internal/database"
	"github.com/blytheSchen/SketchTiler-sub000/internal/logger"
	"github.com/blytheSchen/SketchTiler-sub000/internal/tileset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

type learnFlags struct {
	tileset     string
	patternSize int
	save        bool
}

func newLearnCmd(a *app) *cobra.Command {
	f := &learnFlags{}
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn patterns from a tileset and print their statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLearn(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.tileset, "tileset", "", "Path to tileset YAML file")
	cmd.Flags().IntVarP(&f.patternSize, "pattern-size", "n", 0, "Pattern size N (default: tileset, then config)")
	cmd.Flags().BoolVar(&f.save, "save", false, "Record the model in the database")
	_ = cmd.MarkFlagRequired("tileset")
	return cmd
}

func (a *app) runLearn(cmd *cobra.Command, f *learnFlags) error {
	ts, n, err := a.loadTileset(f.tileset, f.patternSize)
	if err != nil {
		return err
	}

	m, err := wfc.Learn(ts.Grids(), n)
	if err != nil {
		return fmt.Errorf("learn %s: %w", ts.Name, err)
	}
	ps := m.Patterns()
	fingerprint := ts.Fingerprint(n)
	logger.Info("Patterns learned", "tileset", ts.Name, "pattern_size", n, "patterns", ps.Len())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tileset:      %s\n", ts.Name)
	fmt.Fprintf(out, "fingerprint:  %s\n", fingerprint)
	fmt.Fprintf(out, "pattern size: %d\n", n)
	fmt.Fprintf(out, "images:       %d\n", len(ts.Images))
	fmt.Fprintf(out, "patterns:     %d\n", ps.Len())
	fmt.Fprintf(out, "tiles:        %v\n", ps.Tiles())

	if f.save {
		if err := a.saveModel(cmd.Context(), ts, n, ps); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved model %s\n", fingerprint)
	}
	return nil
}

// loadTileset reads the tileset and settles the pattern size: the flag,
// then the tileset's own preference, then the configured default.
func (a *app) loadTileset(path string, patternSize int) (*tileset.Tileset, int, error) {
	ts, err := tileset.Load(path)
	if err != nil {
		return nil, 0, err
	}
	n := patternSize
	if n == 0 {
		n = ts.PatternSize
	}
	if n == 0 {
		n = a.cfg.Generator.PatternSize
	}
	return ts, n, nil
}

func (a *app) saveModel(ctx context.Context, ts *tileset.Tileset, n int, ps *wfc.PatternSet) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveModel(ctx, database.ModelRecord{
		Fingerprint:  ts.Fingerprint(n),
		Name:         ts.Name,
		PatternSize:  n,
		PatternCount: ps.Len(),
		TileCount:    len(ps.Tiles()),
	})
	return err
}
