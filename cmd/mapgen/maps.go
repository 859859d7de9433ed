package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/blytheSchen/SketchTiler-sub000/internal/grid"
	"github.com/blytheSchen/SketchTiler-sub000/internal/tileset"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

func newMapsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Inspect maps stored in the database",
	}

	var model string
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMapsList(cmd, model)
		},
	}
	list.Flags().StringVar(&model, "model", "", "Only list maps of this model fingerprint")

	var tilesetPath string
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a stored map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMapsShow(cmd, args[0], tilesetPath)
		},
	}
	show.Flags().StringVar(&tilesetPath, "tileset", "", "Tileset whose legend supplies glyphs")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMapsDelete(cmd, args[0])
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func (a *app) runMapsList(cmd *cobra.Command, model string) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	maps, err := db.ListMaps(cmd.Context(), model)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODEL\tSIZE\tSEED\tATTEMPTS\tCREATED")
	for _, m := range maps {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%d\t%s\n",
			m.ID, shortFingerprint(m.ModelFingerprint), m.Width, m.Height,
			m.Seed, m.Attempts, m.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func (a *app) runMapsShow(cmd *cobra.Command, id, tilesetPath string) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.GetMap(cmd.Context(), id)
	if err != nil {
		return err
	}

	ts := &tileset.Tileset{}
	if tilesetPath != "" {
		if ts, err = tileset.Load(tilesetPath); err != nil {
			return err
		}
	}

	rows := make([][]wfc.TileID, 0, rec.Height)
	for _, row := range rec.Rows() {
		r := make([]wfc.TileID, len(row))
		for i, t := range row {
			r[i] = wfc.TileID(t)
		}
		rows = append(rows, r)
	}
	tiles, err := grid.FromRows(rows)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# map %s model=%s seed=%d attempts=%d\n",
		rec.ID, shortFingerprint(rec.ModelFingerprint), rec.Seed, rec.Attempts)
	return ts.Render(out, tiles)
}

func (a *app) runMapsDelete(cmd *cobra.Command, id string) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteMap(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted map %s\n", id)
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
