package provision

import (
	"context"
	"fmt"
	"time"

	"db-bootstrap/internal/dialect"
	"db-bootstrap/internal/logger"
	"db-bootstrap/internal/schema"

	"github.com/google/uuid"
)

// Report summarizes one EnsureSchema invocation.
type Report struct {
	RunID           string
	Database        string
	Table           string
	DatabaseCreated bool
	TableCreated    bool
	Elapsed         time.Duration
}

func (r *Report) String() string {
	status := func(created bool) string {
		if created {
			return "created"
		}
		return "exists"
	}
	return fmt.Sprintf("database %s: %s, table %s: %s (%s)",
		r.Database, status(r.DatabaseCreated), r.Table, status(r.TableCreated), r.Elapsed.Round(time.Millisecond))
}

// Bootstrapper idempotently provisions a database and one table inside it.
//
// Concurrent invocations against the same target are safe: creation uses the
// engine's IF NOT EXISTS form where there is one, and otherwise treats the
// engine's "already exists" error as success. The only observable race is
// which caller's Report says "created".
type Bootstrapper struct {
	dialect   dialect.Dialect
	connector Connector
	log       logger.Logger
}

type Option func(*Bootstrapper)

// WithConnector replaces the database/sql connector (tests use a fake).
func WithConnector(c Connector) Option {
	return func(b *Bootstrapper) { b.connector = c }
}

func WithLogger(l logger.Logger) Option {
	return func(b *Bootstrapper) { b.log = l }
}

func New(d dialect.Dialect, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		dialect:   d,
		connector: SQLConnector{Dialect: d},
		log:       logger.Default,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EnsureSchema makes sure target.Database exists, then that target.Table
// exists inside it. The database phase connects with admin; the table phase
// connects with scoped, or with admin again when scoped is nil.
//
// Any failure is returned as a *ProvisionError and stops the invocation;
// work already done (e.g. the database) is left in place and is skipped by
// the next invocation.
func (b *Bootstrapper) EnsureSchema(ctx context.Context, admin schema.AdminCredential, scoped *schema.Credential, target schema.TargetSchema) (*Report, error) {
	if err := target.Validate(); err != nil {
		return nil, &ProvisionError{Kind: ErrInvalidTarget, Phase: PhaseValidate, Object: target.Database + "." + target.Table, Err: err}
	}

	start := time.Now()
	report := &Report{
		RunID:    uuid.NewString(),
		Database: target.Database,
		Table:    target.Table,
	}

	// --- Phase 1: Database (admin handle) ---
	created, err := b.ensureDatabase(ctx, report.RunID, admin, target.Database)
	if err != nil {
		report.Elapsed = time.Since(start)
		b.log.Error("[%s] %v", report.RunID, err)
		return report, err
	}
	report.DatabaseCreated = created

	// --- Phase 2: Table (handle scoped to the target database) ---
	cred := admin
	if scoped != nil {
		cred = *scoped
	}
	created, err = b.ensureTable(ctx, report.RunID, cred, target)
	if err != nil {
		report.Elapsed = time.Since(start)
		b.log.Error("[%s] %v", report.RunID, err)
		return report, err
	}
	report.TableCreated = created

	report.Elapsed = time.Since(start)
	b.log.Info("[%s] %s", report.RunID, report)
	return report, nil
}

func (b *Bootstrapper) ensureDatabase(ctx context.Context, runID string, admin schema.Credential, name string) (bool, error) {
	b.log.Info("[%s] connecting as %s to check database %s...", runID, admin.Username, name)
	sess, err := b.connector.Connect(ctx, admin, b.dialect.AdminDatabase())
	if err != nil {
		return false, &ProvisionError{Kind: ErrConnectionFailed, Phase: PhaseDatabase, Object: name, Err: err}
	}
	defer b.closeSession(runID, sess)

	query, args := b.dialect.DatabaseExistsQuery(name)
	exists, err := b.exists(ctx, sess, query, args)
	if err != nil {
		return false, &ProvisionError{Kind: ErrQueryFailed, Phase: PhaseDatabase, Object: name, Err: err}
	}
	if exists {
		b.log.Info("[%s] database %s already exists, skipping creation", runID, name)
		return false, nil
	}

	stmt, _ := b.dialect.CreateDatabaseQuery(name)
	return b.create(ctx, runID, sess, PhaseDatabase, name, stmt)
}

func (b *Bootstrapper) ensureTable(ctx context.Context, runID string, cred schema.Credential, target schema.TargetSchema) (bool, error) {
	b.log.Info("[%s] connecting as %s to %s to check table %s...", runID, cred.Username, target.Database, target.Table)
	sess, err := b.connector.Connect(ctx, cred, target.Database)
	if err != nil {
		return false, &ProvisionError{Kind: ErrConnectionFailed, Phase: PhaseTable, Object: target.Table, Err: err}
	}
	defer b.closeSession(runID, sess)

	query, args := b.dialect.TableExistsQuery(target.Database, target.Table)
	exists, err := b.exists(ctx, sess, query, args)
	if err != nil {
		return false, &ProvisionError{Kind: ErrQueryFailed, Phase: PhaseTable, Object: target.Table, Err: err}
	}
	if exists {
		b.log.Info("[%s] table %s already exists, skipping creation", runID, target.Table)
		return false, nil
	}

	stmt, _ := b.dialect.CreateTableQuery(target.Database, target.Table, target.Columns)
	return b.create(ctx, runID, sess, PhaseTable, target.Table, stmt)
}

func (b *Bootstrapper) exists(ctx context.Context, sess Session, query string, args []any) (bool, error) {
	var count int
	if err := sess.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (b *Bootstrapper) create(ctx context.Context, runID string, sess Session, phase, name, stmt string) (bool, error) {
	b.log.Info("[%s] creating %s %s...", runID, phase, name)
	b.log.Debug("[%s] %s", runID, stmt)
	if _, err := sess.ExecContext(ctx, stmt); err != nil {
		// Lost the race to a concurrent invocation: the object is there.
		if b.dialect.IsAlreadyExists(err) {
			b.log.Warn("[%s] %s %s was created concurrently, skipping", runID, phase, name)
			return false, nil
		}
		return false, &ProvisionError{Kind: ErrCreateFailed, Phase: phase, Object: name, Err: err}
	}
	return true, nil
}

func (b *Bootstrapper) closeSession(runID string, sess Session) {
	if err := sess.Close(); err != nil {
		b.log.Warn("[%s] failed to close connection: %v", runID, err)
	}
}
