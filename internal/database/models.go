package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrModelNotFound is returned when a model lookup fails.
var ErrModelNotFound = errors.New("model not found")

// ModelRecord describes a learned pattern set. Patterns are relearned from
// the tileset on load; the record pins which tileset a map came from.
type ModelRecord struct {
	Fingerprint  string
	Name         string
	PatternSize  int
	PatternCount int
	TileCount    int
	CreatedAt    time.Time
}

// SaveModel stores the model record. Saving a fingerprint that already
// exists is a no-op and returns the stored record.
func (d *Database) SaveModel(ctx context.Context, m ModelRecord) (*ModelRecord, error) {
	m.Fingerprint = strings.TrimSpace(m.Fingerprint)
	if m.Fingerprint == "" {
		return nil, errors.New("model fingerprint cannot be empty")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := d.db.ExecContext(ctx, d.qb.Build(
		`INSERT INTO models (fingerprint, name, pattern_size, pattern_count, tile_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		m.Fingerprint, m.Name, m.PatternSize, m.PatternCount, m.TileCount, m.CreatedAt,
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return d.GetModel(ctx, m.Fingerprint)
		}
		return nil, fmt.Errorf("failed to save model: %w", err)
	}
	return &m, nil
}

// GetModel retrieves a model record by fingerprint.
func (d *Database) GetModel(ctx context.Context, fingerprint string) (*ModelRecord, error) {
	var m ModelRecord
	err := d.db.QueryRowContext(ctx, d.qb.Build(
		`SELECT fingerprint, name, pattern_size, pattern_count, tile_count, created_at
		 FROM models WHERE fingerprint = ?`),
		fingerprint,
	).Scan(&m.Fingerprint, &m.Name, &m.PatternSize, &m.PatternCount, &m.TileCount, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return &m, nil
}
