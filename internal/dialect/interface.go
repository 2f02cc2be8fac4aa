package dialect

import "db-bootstrap/internal/schema"

// Dialect abstracts database-specific operations.
type Dialect interface {
	// Connection
	DriverName() string
	DSN(cred schema.Credential, database string) string
	AdminDatabase() string // database the admin phase connects to

	// Catalog Queries (existence checks return a single COUNT)
	DatabaseExistsQuery(database string) (string, []any)
	TableExistsQuery(database, table string) (string, []any)
	ColumnsQuery(database, table string) (string, []any)

	// DDL Generation. guarded reports whether the statement is already a
	// no-op when the object exists (IF NOT EXISTS or equivalent).
	CreateDatabaseQuery(database string) (query string, guarded bool)
	CreateTableQuery(database, table string, cols []schema.Column) (query string, guarded bool)

	// DML Generation
	InsertQuery(database, table string, cols []string) string
	TruncateQuery(database, table string) string
	SelectQuery(database, table string, cols []string, limit int) string // first limit rows
	Placeholder(index int) string // Returns ?, $1, @p1, etc.

	// Helpers
	QuoteIdent(name string) string
	TableRef(database, table string) string // table name as DML should reference it
	IsAlreadyExists(err error) bool // duplicate database/table error from a concurrent creator
}
