package dialect

import (
	"errors"
	"fmt"
	"strings"

	"db-bootstrap/internal/schema"

	"github.com/go-sql-driver/mysql"
)

type MysqlDialect struct{}

func (d *MysqlDialect) DriverName() string { return "mysql" }

func (d *MysqlDialect) DSN(cred schema.Credential, database string) string {
	cfg := mysql.NewConfig()
	cfg.User = cred.Username
	cfg.Passwd = cred.Password
	cfg.Net = "tcp"
	cfg.Addr = hostPort(cred, 3306)
	cfg.DBName = database
	switch cred.SSLMode {
	case "require", "verify-full":
		cfg.TLSConfig = "true"
	case "skip-verify":
		cfg.TLSConfig = "skip-verify"
	case "prefer", "preferred":
		cfg.TLSConfig = "preferred"
	}
	return cfg.FormatDSN()
}

// AdminDatabase is empty: MySQL sessions need no default schema.
func (d *MysqlDialect) AdminDatabase() string { return "" }

func (d *MysqlDialect) DatabaseExistsQuery(database string) (string, []any) {
	return `SELECT COUNT(*) FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = ?`, []any{database}
}

func (d *MysqlDialect) TableExistsQuery(database, table string) (string, []any) {
	return `SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?`, []any{database, table}
}

func (d *MysqlDialect) ColumnsQuery(database, table string) (string, []any) {
	return `SELECT COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []any{database, table}
}

func (d *MysqlDialect) CreateDatabaseQuery(database string) (string, bool) {
	return fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", d.QuoteIdent(database)), true
}

func (d *MysqlDialect) CreateTableQuery(database, table string, cols []schema.Column) (string, bool) {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", d.QuoteIdent(table), ColumnDefinitions(cols, d.QuoteIdent)), true
}

func (d *MysqlDialect) InsertQuery(database, table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", d.TableRef(database, table), quoteColumns(cols, d.QuoteIdent), vals)
}

func (d *MysqlDialect) SelectQuery(database, table string, cols []string, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s LIMIT %d", quoteColumns(cols, d.QuoteIdent), d.TableRef(database, table), limit)
}

func (d *MysqlDialect) TruncateQuery(database, table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.TableRef(database, table))
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MysqlDialect) IsAlreadyExists(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	// ER_DB_CREATE_EXISTS, ER_TABLE_EXISTS_ERROR
	return myErr.Number == 1007 || myErr.Number == 1050
}

// TableRef is unqualified: sessions are already scoped to the database.
func (d *MysqlDialect) TableRef(database, table string) string {
	return d.QuoteIdent(table)
}
