package provision

import (
	"context"
	"database/sql"

	"db-bootstrap/internal/dialect"
	"db-bootstrap/internal/schema"

	"github.com/jmoiron/sqlx"
)

// Session is one open handle scoped to a single database. *sqlx.DB
// satisfies it.
type Session interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	Close() error
}

// Connector opens sessions. The caller owns the returned Session and must
// close it.
type Connector interface {
	Connect(ctx context.Context, cred schema.Credential, database string) (Session, error)
}

// SQLConnector opens sessions through database/sql using the dialect's
// driver and DSN.
type SQLConnector struct {
	Dialect dialect.Dialect
}

func (c SQLConnector) Connect(ctx context.Context, cred schema.Credential, database string) (Session, error) {
	// ConnectContext pings, so auth and network failures surface here
	db, err := sqlx.ConnectContext(ctx, c.Dialect.DriverName(), c.Dialect.DSN(cred, database))
	if err != nil {
		return nil, err
	}
	// One statement at a time; no pool.
	db.SetMaxOpenConns(1)
	return db, nil
}
