package database

import (
	"context"
	"fmt"
)

// CopyStats counts the rows copied per table.
type CopyStats struct {
	Models int64
	Maps   int64
}

// Total returns the number of rows copied across tables.
func (s CopyStats) Total() int64 {
	return s.Models + s.Maps
}

// CopyTo copies every model and map into dst, keeping IDs and timestamps.
// Rows dst already holds are skipped. With dryRun set, rows are counted
// but nothing is written.
func (d *Database) CopyTo(ctx context.Context, dst *Database, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	models, err := d.listModels(ctx)
	if err != nil {
		return stats, err
	}
	maps, err := d.ListMaps(ctx, "")
	if err != nil {
		return stats, err
	}
	if dryRun {
		return CopyStats{Models: int64(len(models)), Maps: int64(len(maps))}, nil
	}

	tx, err := dst.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin copy: %w", err)
	}
	defer tx.Rollback()

	for _, m := range models {
		res, err := tx.ExecContext(ctx, dst.qb.Build(
			`INSERT INTO models (fingerprint, name, pattern_size, pattern_count, tile_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`),
			m.Fingerprint, m.Name, m.PatternSize, m.PatternCount, m.TileCount, m.CreatedAt.UTC(),
		)
		if err != nil {
			return stats, fmt.Errorf("failed to copy model %s: %w", m.Fingerprint, err)
		}
		n, _ := res.RowsAffected()
		stats.Models += n
	}

	for _, m := range maps {
		res, err := tx.ExecContext(ctx, dst.qb.Build(
			`INSERT INTO maps (id, model_fingerprint, width, height, seed, attempts, tiles, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`),
			m.ID, m.ModelFingerprint, m.Width, m.Height, m.Seed, m.Attempts, encodeTiles(m.Tiles), m.CreatedAt.UTC(),
		)
		if err != nil {
			return stats, fmt.Errorf("failed to copy map %s: %w", m.ID, err)
		}
		n, _ := res.RowsAffected()
		stats.Maps += n
	}

	if err := tx.Commit(); err != nil {
		return CopyStats{}, fmt.Errorf("failed to commit copy: %w", err)
	}
	return stats, nil
}

func (d *Database) listModels(ctx context.Context) ([]*ModelRecord, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT fingerprint, name, pattern_size, pattern_count, tile_count, created_at
		 FROM models ORDER BY created_at, fingerprint`)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var models []*ModelRecord
	for rows.Next() {
		var m ModelRecord
		if err := rows.Scan(&m.Fingerprint, &m.Name, &m.PatternSize, &m.PatternCount, &m.TileCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		models = append(models, &m)
	}
	return models, rows.Err()
}
