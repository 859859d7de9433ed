package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMapNotFound is returned when a map lookup fails.
var ErrMapNotFound = errors.New("map not found")

// MapRecord is a generated map. Tiles are stored row-major.
type MapRecord struct {
	ID               string
	ModelFingerprint string
	Width            int
	Height           int
	Seed             int64
	Attempts         int
	Tiles            []int32
	CreatedAt        time.Time
}

// Rows splits Tiles into Height rows of Width tiles.
func (m *MapRecord) Rows() [][]int32 {
	rows := make([][]int32, 0, m.Height)
	for y := 0; y < m.Height; y++ {
		rows = append(rows, m.Tiles[y*m.Width:(y+1)*m.Width])
	}
	return rows
}

// SaveMap stores a generated map under a fresh ID and returns the stored record.
// The model must already be saved.
func (d *Database) SaveMap(ctx context.Context, m MapRecord) (*MapRecord, error) {
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", m.Width, m.Height)
	}
	if len(m.Tiles) != m.Width*m.Height {
		return nil, fmt.Errorf("map has %d tiles, want %d", len(m.Tiles), m.Width*m.Height)
	}

	m.ID = uuid.NewString()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := d.db.ExecContext(ctx, d.qb.Build(
		`INSERT INTO maps (id, model_fingerprint, width, height, seed, attempts, tiles, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		m.ID, m.ModelFingerprint, m.Width, m.Height, m.Seed, m.Attempts, encodeTiles(m.Tiles), m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save map: %w", err)
	}
	return &m, nil
}

// GetMap retrieves a map by ID.
func (d *Database) GetMap(ctx context.Context, id string) (*MapRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrMapNotFound
	}
	row := d.db.QueryRowContext(ctx, d.qb.Build(
		`SELECT id, model_fingerprint, width, height, seed, attempts, tiles, created_at
		 FROM maps WHERE id = ?`),
		id,
	)
	m, err := scanMap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get map: %w", err)
	}
	return m, nil
}

// ListMaps returns maps ordered by creation time, oldest first.
// An empty fingerprint lists maps of every model.
func (d *Database) ListMaps(ctx context.Context, fingerprint string) ([]*MapRecord, error) {
	query := `SELECT id, model_fingerprint, width, height, seed, attempts, tiles, created_at FROM maps`
	var args []any
	if fingerprint != "" {
		query += ` WHERE model_fingerprint = ?`
		args = append(args, fingerprint)
	}
	query += ` ORDER BY created_at, id`

	rows, err := d.db.QueryContext(ctx, d.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	defer rows.Close()

	var maps []*MapRecord
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan map: %w", err)
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// DeleteMap removes a map by ID.
func (d *Database) DeleteMap(ctx context.Context, id string) error {
	result, err := d.db.ExecContext(ctx, d.qb.Build(`DELETE FROM maps WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return ErrMapNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMap(s scanner) (*MapRecord, error) {
	var (
		m     MapRecord
		tiles string
	)
	if err := s.Scan(&m.ID, &m.ModelFingerprint, &m.Width, &m.Height, &m.Seed, &m.Attempts, &tiles, &m.CreatedAt); err != nil {
		return nil, err
	}
	decoded, err := decodeTiles(tiles)
	if err != nil {
		return nil, err
	}
	if len(decoded) != m.Width*m.Height {
		return nil, fmt.Errorf("map %s has %d tiles, want %d", m.ID, len(decoded), m.Width*m.Height)
	}
	m.Tiles = decoded
	return &m, nil
}

func encodeTiles(tiles []int32) string {
	var sb strings.Builder
	for i, t := range tiles {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(int64(t), 10))
	}
	return sb.String()
}

func decodeTiles(s string) ([]int32, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	tiles := make([]int32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid tile %q: %w", p, err)
		}
		tiles[i] = int32(v)
	}
	return tiles, nil
}
