package dialect

import (
	"errors"
	"fmt"
	"strings"

	"db-bootstrap/internal/schema"

	go_ora "github.com/sijms/go-ora/v2"
	"github.com/sijms/go-ora/v2/network"
)

// OracleDialect maps a "database" onto a schema: in Oracle a schema is a
// user, so provisioning one creates a schema-only account (18c+) that owns
// the table. Identifiers are upper-cased before quoting so that catalog
// lookups in ALL_USERS / ALL_TABLES match what was created.
type OracleDialect struct{}

func (d *OracleDialect) DriverName() string { return "oracle" }

// DSN ignores database: the connection targets the service, and tables are
// qualified with their owning schema instead.
func (d *OracleDialect) DSN(cred schema.Credential, database string) string {
	port := cred.Port
	if port == 0 {
		port = 1521
	}
	var options map[string]string
	if cred.SSLMode == "require" || cred.SSLMode == "verify-full" {
		options = map[string]string{"SSL": "enable"}
		if cred.SSLMode == "require" {
			options["SSL VERIFY"] = "false"
		}
	}
	return go_ora.BuildUrl(cred.Host, port, cred.Service, cred.Username, cred.Password, options)
}

func (d *OracleDialect) AdminDatabase() string { return "" }

func (d *OracleDialect) DatabaseExistsQuery(database string) (string, []any) {
	return `SELECT COUNT(*) FROM ALL_USERS WHERE USERNAME = :1`, []any{strings.ToUpper(database)}
}

func (d *OracleDialect) TableExistsQuery(database, table string) (string, []any) {
	return `SELECT COUNT(*) FROM ALL_TABLES WHERE OWNER = :1 AND TABLE_NAME = :2`, []any{strings.ToUpper(database), strings.ToUpper(table)}
}

func (d *OracleDialect) ColumnsQuery(database, table string) (string, []any) {
	return `SELECT COLUMN_NAME FROM ALL_TAB_COLUMNS WHERE OWNER = :1 AND TABLE_NAME = :2 ORDER BY COLUMN_ID`, []any{strings.ToUpper(database), strings.ToUpper(table)}
}

func (d *OracleDialect) CreateDatabaseQuery(database string) (string, bool) {
	return fmt.Sprintf("CREATE USER %s NO AUTHENTICATION QUOTA UNLIMITED ON USERS", d.QuoteIdent(database)), false
}

func (d *OracleDialect) CreateTableQuery(database, table string, cols []schema.Column) (string, bool) {
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", d.TableRef(database, table), ColumnDefinitions(cols, d.QuoteIdent)), false
}

func (d *OracleDialect) InsertQuery(database, table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.TableRef(database, table), quoteColumns(cols, d.QuoteIdent), vals)
}

func (d *OracleDialect) SelectQuery(database, table string, cols []string, limit int) string {
	// 12c+ row limiting
	return fmt.Sprintf("SELECT %s FROM %s FETCH FIRST %d ROWS ONLY", quoteColumns(cols, d.QuoteIdent), d.TableRef(database, table), limit)
}

func (d *OracleDialect) TruncateQuery(database, table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.TableRef(database, table))
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(strings.ToUpper(name), `"`, `""`) + `"`
}

func (d *OracleDialect) IsAlreadyExists(err error) bool {
	var oraErr *network.OracleError
	if !errors.As(err, &oraErr) {
		return false
	}
	// ORA-01920: user name conflicts, ORA-00955: name is already used by an existing object
	return oraErr.ErrCode == 1920 || oraErr.ErrCode == 955
}

func (d *OracleDialect) TableRef(database, table string) string {
	return d.QuoteIdent(database) + "." + d.QuoteIdent(table)
}
