package dialect

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"db-bootstrap/internal/schema"

	mssql "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?

func (d *MSSQLDialect) DriverName() string { return "sqlserver" }

func (d *MSSQLDialect) DSN(cred schema.Credential, database string) string {
	query := url.Values{}
	if database != "" {
		query.Set("database", database)
	}
	switch cred.SSLMode {
	case "disable":
		query.Set("encrypt", "disable")
	case "require", "verify-full":
		query.Set("encrypt", "true")
	}
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cred.Username, cred.Password),
		Host:     hostPort(cred, 1433),
		RawQuery: query.Encode(),
	}
	return u.String()
}

func (d *MSSQLDialect) AdminDatabase() string { return "master" }

func (d *MSSQLDialect) DatabaseExistsQuery(database string) (string, []any) {
	return `SELECT COUNT(*) FROM sys.databases WHERE name = @p1`, []any{database}
}

func (d *MSSQLDialect) TableExistsQuery(database, table string) (string, []any) {
	return `SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_NAME = @p1`, []any{table}
}

func (d *MSSQLDialect) ColumnsQuery(database, table string) (string, []any) {
	return `SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_NAME = @p1 ORDER BY ORDINAL_POSITION`, []any{table}
}

func (d *MSSQLDialect) CreateDatabaseQuery(database string) (string, bool) {
	// T-SQL has no IF NOT EXISTS; the DB_ID guard runs in the same batch.
	return fmt.Sprintf("IF DB_ID(N%s) IS NULL CREATE DATABASE %s", quoteString(database), d.QuoteIdent(database)), true
}

func (d *MSSQLDialect) CreateTableQuery(database, table string, cols []schema.Column) (string, bool) {
	return fmt.Sprintf("IF OBJECT_ID(N%s, N'U') IS NULL CREATE TABLE %s (\n%s\n)",
		quoteString(table), d.QuoteIdent(table), ColumnDefinitions(cols, d.QuoteIdent)), true
}

func (d *MSSQLDialect) InsertQuery(database, table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.TableRef(database, table), quoteColumns(cols, d.QuoteIdent), vals)
}

func (d *MSSQLDialect) SelectQuery(database, table string, cols []string, limit int) string {
	return fmt.Sprintf("SELECT TOP %d %s FROM %s", limit, quoteColumns(cols, d.QuoteIdent), d.TableRef(database, table))
}

func (d *MSSQLDialect) TruncateQuery(database, table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.TableRef(database, table))
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *MSSQLDialect) IsAlreadyExists(err error) bool {
	var msErr mssql.Error
	if !errors.As(err, &msErr) {
		return false
	}
	// 1801: database already exists, 2714: object already exists
	return msErr.Number == 1801 || msErr.Number == 2714
}

// TableRef is unqualified: sessions are already scoped to the database.
func (d *MSSQLDialect) TableRef(database, table string) string {
	return d.QuoteIdent(table)
}
