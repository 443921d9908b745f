package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported databases.
// Queries are written once with ? placeholders and the dialect adapts
// them to the driver.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN builds the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed, ? to $1 for
	// postgres
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver supports
	// LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies driver-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the migrations subdirectory for this
	// database, e.g. "sqlite" or "postgres"
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the
	// migrations tracking table
	CreateMigrationsTableQuery() string

	// BoolValue renders a boolean literal for inlining into SQL
	BoolValue(b bool) string

	// UpsertQuizState returns the insert-or-update statement for the
	// per-user quiz state document
	UpsertQuizState() string
}

// DialectConfig holds the connection target. SQLite uses Path, the
// server databases use URL.
type DialectConfig struct {
	Path string
	URL  string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
