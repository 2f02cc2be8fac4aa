package cmd

import (
	"context"
	"fmt"
	"os"

	"db-bootstrap/internal/dialect"
	"db-bootstrap/internal/engine"
	"db-bootstrap/internal/logger"
	"db-bootstrap/internal/provision"
	"db-bootstrap/internal/schema"
	"db-bootstrap/internal/secrets"

	"github.com/spf13/viper"
)

// runEnv is what every command needs after config is loaded.
type runEnv struct {
	cfg     *Config
	dialect dialect.Dialect
	admin   schema.AdminCredential
	scoped  *schema.Credential
	log     logger.Logger
}

// commandContext bounds a command by settings.timeout when it is set.
func commandContext() (context.Context, context.CancelFunc) {
	if d := viper.GetDuration("settings.timeout"); d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

func prepare(ctx context.Context) (*runEnv, error) {
	cfg, err := LoadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	d, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}

	provider, err := cfg.SecretsProvider(ctx, func(ctx context.Context) (secrets.Provider, error) {
		return secrets.NewAWSProvider(ctx, cfg.AWS.Region)
	})
	if err != nil {
		return nil, err
	}
	admin, scoped, err := cfg.ResolveCredentials(ctx, provider)
	if err != nil {
		return nil, err
	}

	return &runEnv{
		cfg:     cfg,
		dialect: d,
		admin:   admin,
		scoped:  scoped,
		log:     logger.New(os.Stderr, verbose),
	}, nil
}

func (e *runEnv) bootstrapper() *provision.Bootstrapper {
	return provision.New(e.dialect, provision.WithLogger(e.log))
}

// tableCredential is the credential used inside the target database.
func (e *runEnv) tableCredential() schema.Credential {
	if e.scoped != nil {
		return *e.scoped
	}
	return e.admin
}

func (e *runEnv) connectTarget(ctx context.Context, target schema.TargetSchema) (provision.Session, error) {
	sess, err := provision.SQLConnector{Dialect: e.dialect}.Connect(ctx, e.tableCredential(), target.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target.Database, err)
	}
	return sess, nil
}

// addRow inserts one row through a short-lived session.
func (e *runEnv) addRow(ctx context.Context, target schema.TargetSchema, row map[string]any) error {
	sess, err := e.connectTarget(ctx, target)
	if err != nil {
		return err
	}
	defer sess.Close()
	return engine.InsertRow(ctx, sess, e.dialect, target, row)
}

// listRows reads the first limit rows through a short-lived session.
func (e *runEnv) listRows(ctx context.Context, target schema.TargetSchema, limit int) ([]map[string]any, error) {
	sess, err := e.connectTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	return engine.ListRows(ctx, sess, e.dialect, target, limit)
}
