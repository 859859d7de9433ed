// Package database persists learned models and generated maps in SQLite or PostgreSQL.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig connects using the driver selected in cfg and runs migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialectType, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dialect := NewDialect(dialectType)
	dsn := cfg.Postgres.DSN()
	if dialectType == DialectSQLite {
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*SQLiteDialect); ok {
		// PRAGMAs are per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		// Learned models, keyed by tileset fingerprint
		`CREATE TABLE IF NOT EXISTS models (
			fingerprint TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pattern_size INTEGER NOT NULL,
			pattern_count INTEGER NOT NULL,
			tile_count INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		// Generated maps
		`CREATE TABLE IF NOT EXISTS maps (
			id TEXT PRIMARY KEY,
			model_fingerprint TEXT NOT NULL REFERENCES models(fingerprint) ON DELETE CASCADE,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			attempts INTEGER NOT NULL,
			tiles TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_maps_model_fingerprint ON maps(model_fingerprint)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}
