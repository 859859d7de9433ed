package database

import "fmt"

// Dialect hides the differences between the SQLite and PostgreSQL backends.
type Dialect interface {
	// DriverName is the database/sql driver to open.
	DriverName() string

	// Placeholder returns the bind parameter for a 1-indexed position.
	Placeholder(position int) string

	// InitStatements run once on a new connection pool, before migrations.
	InitStatements() []string

	// IsDuplicateKeyError reports a primary key or unique violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType names a supported backend. Its values match the config's driver field.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// ParseDialect maps a configured driver name to its dialect type.
// An empty name selects SQLite.
func ParseDialect(driver string) (DialectType, error) {
	switch DialectType(driver) {
	case DialectSQLite, "":
		return DialectSQLite, nil
	case DialectPostgres:
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// NewDialect returns the Dialect for t, defaulting to SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}
