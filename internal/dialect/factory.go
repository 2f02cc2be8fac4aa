package dialect

import "fmt"

// GetDialect returns the Dialect implementation for an engine name.
func GetDialect(engine string) (Dialect, error) {
	switch engine {
	case "postgres", "postgresql":
		return &PostgresDialect{}, nil
	case "mysql", "mariadb":
		return &MysqlDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported engine: %q", engine)
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
