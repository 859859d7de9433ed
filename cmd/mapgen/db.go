package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blytheSchen/SketchTiler-sub000/internal/database"
	"github.com/blytheSchen/SketchTiler-sub000/internal/logger"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	var (
		from   string
		dryRun bool
	)
	copyCmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy models and maps from a SQLite file into the configured database",
		Long: `Copy reads every model and map from a SQLite database file and inserts
them into the database named in the config, typically PostgreSQL. IDs and
timestamps are kept and rows already present are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDBCopy(cmd, from, dryRun)
		},
	}
	copyCmd.Flags().StringVar(&from, "from", "", "Path to the source SQLite database")
	copyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Count rows without writing")
	_ = copyCmd.MarkFlagRequired("from")

	cmd.AddCommand(copyCmd)
	return cmd
}

func (a *app) runDBCopy(cmd *cobra.Command, from string, dryRun bool) error {
	if a.cfg.Database.Driver == string(database.DialectSQLite) && a.cfg.Database.SQLitePath == from {
		return fmt.Errorf("source and destination are the same database: %s", from)
	}

	src, err := database.Open(from)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := a.openDB()
	if err != nil {
		return err
	}
	defer dst.Close()

	logger.Info("Copying database", "from", from, "to", a.cfg.Database.Driver, "dry_run", dryRun)
	stats, err := src.CopyTo(cmd.Context(), dst, dryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "copied"
	if dryRun {
		verb = "would copy"
	}
	fmt.Fprintf(out, "%s %d models, %d maps\n", verb, stats.Models, stats.Maps)
	return nil
}
