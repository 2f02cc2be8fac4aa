package dialect

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"db-bootstrap/internal/schema"

	"github.com/lib/pq"
)

type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(cred schema.Credential, database string) string {
	port := cred.Port
	if port == 0 {
		port = 5432
	}
	sslMode := cred.SSLMode
	if sslMode == "" {
		sslMode = "require" // RDS default
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cred.Username, cred.Password),
		Host:     net.JoinHostPort(cred.Host, strconv.Itoa(port)),
		Path:     "/" + database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

func (d *PostgresDialect) AdminDatabase() string { return "postgres" }

func (d *PostgresDialect) DatabaseExistsQuery(database string) (string, []any) {
	return `SELECT COUNT(*) FROM pg_database WHERE datname = $1`, []any{database}
}

func (d *PostgresDialect) TableExistsQuery(database, table string) (string, []any) {
	// to_regclass resolves against search_path, same as the unqualified CREATE TABLE
	return `SELECT CASE WHEN to_regclass($1) IS NULL THEN 0 ELSE 1 END`, []any{d.QuoteIdent(table)}
}

func (d *PostgresDialect) ColumnsQuery(database, table string) (string, []any) {
	return `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position`, []any{table}
}

func (d *PostgresDialect) CreateDatabaseQuery(database string) (string, bool) {
	// No IF NOT EXISTS for databases; duplicates are caught by IsAlreadyExists.
	return fmt.Sprintf("CREATE DATABASE %s", d.QuoteIdent(database)), false
}

func (d *PostgresDialect) CreateTableQuery(database, table string, cols []schema.Column) (string, bool) {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", d.QuoteIdent(table), ColumnDefinitions(cols, d.QuoteIdent)), true
}

func (d *PostgresDialect) InsertQuery(database, table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING", d.TableRef(database, table), quoteColumns(cols, d.QuoteIdent), vals)
}

func (d *PostgresDialect) SelectQuery(database, table string, cols []string, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s LIMIT %d", quoteColumns(cols, d.QuoteIdent), d.TableRef(database, table), limit)
}

func (d *PostgresDialect) TruncateQuery(database, table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.TableRef(database, table))
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

func (d *PostgresDialect) IsAlreadyExists(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "42P04", // duplicate_database
		"42P07", // duplicate_table
		"23505": // unique_violation on pg_database/pg_type during concurrent CREATE
		return true
	}
	return false
}

// TableRef is unqualified: sessions are already scoped to the database.
func (d *PostgresDialect) TableRef(database, table string) string {
	return d.QuoteIdent(table)
}
