package provision_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"db-bootstrap/internal/provision"
	"db-bootstrap/internal/schema"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// fakeStore emulates a Postgres server well enough for the statements
// PostgresDialect generates. It records every connection and statement.
type fakeStore struct {
	mu sync.Mutex

	databases map[string]map[string][]string // database -> table -> columns

	connects   []connectCall
	statements []string
	open       int

	connectErr map[string]error // by database
	queryErr   error
	execErr    error
}

type connectCall struct {
	User     string
	Database string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		databases:  map[string]map[string][]string{"postgres": {}},
		connectErr: map[string]error{},
	}
}

func (s *fakeStore) withTable(database, table string, cols ...string) *fakeStore {
	if s.databases[database] == nil {
		s.databases[database] = map[string][]string{}
	}
	if table != "" {
		s.databases[database][table] = cols
	}
	return s
}

func (s *fakeStore) creates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, stmt := range s.statements {
		if strings.HasPrefix(stmt, "CREATE") {
			out = append(out, stmt)
		}
	}
	return out
}

func (s *fakeStore) Connect(ctx context.Context, cred schema.Credential, database string) (provision.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connects = append(s.connects, connectCall{User: cred.Username, Database: database})
	if err := s.connectErr[database]; err != nil {
		return nil, err
	}
	if _, ok := s.databases[database]; !ok {
		return nil, &pq.Error{Code: "3D000", Message: fmt.Sprintf("database %q does not exist", database)}
	}
	s.open++
	return &fakeSession{store: s, database: database}, nil
}

type fakeSession struct {
	store    *fakeStore
	database string
	closed   bool
}

func (f *fakeSession) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queryErr != nil {
		return s.queryErr
	}
	count := dest.(*int)
	*count = 0
	switch {
	case strings.Contains(query, "pg_database"):
		if _, ok := s.databases[args[0].(string)]; ok {
			*count = 1
		}
	case strings.Contains(query, "to_regclass"):
		if _, ok := s.databases[f.database][unquote(args[0].(string))]; ok {
			*count = 1
		}
	default:
		return fmt.Errorf("unexpected query %q", query)
	}
	return nil
}

func (f *fakeSession) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queryErr != nil {
		return s.queryErr
	}
	names := dest.(*[]string)
	*names = append([]string(nil), s.databases[f.database][args[0].(string)]...)
	return nil
}

func (f *fakeSession) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s := f.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statements = append(s.statements, query)
	if s.execErr != nil {
		return nil, s.execErr
	}

	switch {
	case strings.HasPrefix(query, "CREATE DATABASE "):
		name := unquote(strings.TrimPrefix(query, "CREATE DATABASE "))
		if _, ok := s.databases[name]; ok {
			return nil, &pq.Error{Code: "42P04", Message: "database already exists"}
		}
		s.databases[name] = map[string][]string{}
	case strings.HasPrefix(query, "CREATE TABLE IF NOT EXISTS "):
		rest := strings.TrimPrefix(query, "CREATE TABLE IF NOT EXISTS ")
		name := unquote(rest[:strings.Index(rest, " (")])
		if _, ok := s.databases[f.database][name]; !ok {
			s.databases[f.database][name] = parseColumns(rest)
		}
	default:
		return nil, fmt.Errorf("unexpected statement %q", query)
	}
	return driverResult{}, nil
}

func (f *fakeSession) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return nil, fmt.Errorf("unexpected query %q", query)
}

func (f *fakeSession) Close() error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if !f.closed {
		f.closed = true
		f.store.open--
	}
	return nil
}

type driverResult struct{}

func (driverResult) LastInsertId() (int64, error) { return 0, nil }
func (driverResult) RowsAffected() (int64, error) { return 0, nil }

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// parseColumns pulls the quoted column names out of a CREATE TABLE body.
func parseColumns(body string) []string {
	var cols []string
	for _, line := range strings.Split(body, "\n")[1:] {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, `"`) {
			continue
		}
		cols = append(cols, unquote(line[:strings.Index(line[1:], `"`)+2]))
	}
	return cols
}
