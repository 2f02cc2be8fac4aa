package cmd_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"db-bootstrap/cmd"
	"db-bootstrap/internal/provision"
	"db-bootstrap/internal/schema"
	"db-bootstrap/internal/secrets"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadYAML(t *testing.T, doc string) (*cmd.Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return cmd.LoadConfig(v)
}

func TestLoadConfig_DefaultsToLibrary(t *testing.T) {
	cfg, err := loadYAML(t, `
admin:
  host: db
  username: admin
  password: secret
`)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Engine)
	assert.Equal(t, schema.DefaultLibrary(), cfg.Target)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadConfig_DatabaseOverrideKeepsColumns(t *testing.T) {
	cfg, err := loadYAML(t, `
target:
  database: staging
admin:
  username: admin
`)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Target.Database)
	assert.Equal(t, "library", cfg.Target.Table)
	assert.Len(t, cfg.Target.Columns, 7)
}

func TestLoadConfig_CustomTarget(t *testing.T) {
	cfg, err := loadYAML(t, `
engine: mysql
target:
  database: shop
  table: items
  columns:
    - name: sku
      type: VARCHAR(20)
      constraints: PRIMARY KEY
    - name: price
      type: DECIMAL(10, 2)
admin:
  username: root
  port: 3307
`)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Engine)
	assert.Equal(t, []string{"sku", "price"}, cfg.Target.ColumnNames())
	assert.Equal(t, "PRIMARY KEY", cfg.Target.Columns[0].Constraints)
	assert.Equal(t, 3307, cfg.Admin.Port)

	d, err := cfg.Dialect()
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.DriverName())
}

func TestLoadConfig_LibraryNeedsArrayTypes(t *testing.T) {
	for _, engine := range []string{"mysql", "sqlserver", "oracle"} {
		_, err := loadYAML(t, "engine: "+engine+"\nadmin:\n  username: admin\n")
		assert.ErrorContains(t, err, "array type VARCHAR(50)[] is only supported on postgres", engine)
	}

	_, err := loadYAML(t, "engine: sqlserver\ntarget:\n  table: books\nadmin:\n  username: sa\n")
	assert.ErrorContains(t, err, "column authors")

	_, err = loadYAML(t, "engine: sqlite\nadmin:\n  username: admin\n")
	assert.ErrorContains(t, err, "unsupported engine")
}

func TestLoadConfig_RequiresAdmin(t *testing.T) {
	_, err := loadYAML(t, "engine: postgres\n")
	assert.ErrorContains(t, err, "admin credential is required")
}

func TestResolveCredentials(t *testing.T) {
	provider := secrets.StaticProvider{
		"rds/admin":   {Host: "rds.internal", Port: 5432, Username: "master", Password: "m"},
		"rds/library": {Host: "rds.internal", Port: 5432, Username: "library", Password: "l"},
	}

	t.Run("inline only, no scoped", func(t *testing.T) {
		cfg, err := loadYAML(t, "admin:\n  username: admin\n  password: pw\n")
		require.NoError(t, err)

		admin, scoped, err := cfg.ResolveCredentials(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "admin", admin.Username)
		assert.Nil(t, scoped)
		assert.False(t, cfg.NeedsSecrets())
	})

	t.Run("secrets with inline override", func(t *testing.T) {
		cfg, err := loadYAML(t, `
admin:
  secret_id: rds/admin
  host: proxy.local
scoped:
  secret_id: rds/library
`)
		require.NoError(t, err)
		assert.True(t, cfg.NeedsSecrets())

		admin, scoped, err := cfg.ResolveCredentials(context.Background(), provider)
		require.NoError(t, err)
		assert.Equal(t, "proxy.local", admin.Host)
		assert.Equal(t, "master", admin.Username)
		require.NotNil(t, scoped)
		assert.Equal(t, "library", scoped.Username)
		assert.Equal(t, "rds.internal", scoped.Host)
	})

	t.Run("secret without provider", func(t *testing.T) {
		cfg, err := loadYAML(t, "admin:\n  secret_id: rds/admin\n")
		require.NoError(t, err)
		_, _, err = cfg.ResolveCredentials(context.Background(), nil)
		assert.ErrorContains(t, err, "no secrets provider configured")
	})

	t.Run("unknown secret", func(t *testing.T) {
		cfg, err := loadYAML(t, "admin:\n  username: a\nscoped:\n  secret_id: rds/missing\n")
		require.NoError(t, err)
		_, _, err = cfg.ResolveCredentials(context.Background(), provider)
		assert.ErrorContains(t, err, "scoped credential")
	})
}

func TestSecretsProvider(t *testing.T) {
	ctx := context.Background()
	remoteCalls := 0
	remote := func(ctx context.Context) (secrets.Provider, error) {
		remoteCalls++
		return secrets.StaticProvider{"prod/library": {Username: "library", Host: "rds.internal"}}, nil
	}

	t.Run("no secret ids", func(t *testing.T) {
		cfg, err := loadYAML(t, "admin:\n  username: admin\n")
		require.NoError(t, err)
		p, err := cfg.SecretsProvider(ctx, remote)
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Zero(t, remoteCalls)
	})

	t.Run("configured credentials only", func(t *testing.T) {
		cfg, err := loadYAML(t, `
credentials:
  local/Admin:
    host: localhost
    username: postgres
    password: postgres
    sslmode: disable
admin:
  secret_id: local/Admin
`)
		require.NoError(t, err)

		p, err := cfg.SecretsProvider(ctx, remote)
		require.NoError(t, err)
		assert.Zero(t, remoteCalls, "no secret store when every id is configured")

		admin, scoped, err := cfg.ResolveCredentials(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, "postgres", admin.Username)
		assert.Equal(t, "disable", admin.SSLMode)
		assert.Nil(t, scoped)
	})

	t.Run("falls back to the secret store", func(t *testing.T) {
		cfg, err := loadYAML(t, `
credentials:
  local/admin:
    username: postgres
admin:
  secret_id: local/admin
scoped:
  secret_id: prod/library
`)
		require.NoError(t, err)

		p, err := cfg.SecretsProvider(ctx, remote)
		require.NoError(t, err)
		assert.Equal(t, 1, remoteCalls)

		admin, scoped, err := cfg.ResolveCredentials(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, "postgres", admin.Username)
		require.NotNil(t, scoped)
		assert.Equal(t, "rds.internal", scoped.Host)
	})
}

func newTestHandler(ensure func(context.Context, schema.TargetSchema) (*provision.Report, error)) *cmd.LambdaHandler {
	return &cmd.LambdaHandler{
		Target: schema.DefaultLibrary(),
		Ensure: ensure,
		Add: func(ctx context.Context, target schema.TargetSchema, row map[string]any) error {
			return errors.New("add not expected")
		},
		List: func(ctx context.Context, target schema.TargetSchema, limit int) ([]map[string]any, error) {
			return nil, errors.New("list not expected")
		},
	}
}

func TestLambdaHandler(t *testing.T) {
	var got schema.TargetSchema
	h := newTestHandler(func(ctx context.Context, target schema.TargetSchema) (*provision.Report, error) {
		got = target
		return &provision.Report{
			RunID:           "run-1",
			Database:        target.Database,
			Table:           target.Table,
			DatabaseCreated: true,
			Elapsed:         1500 * time.Millisecond,
		}, nil
	})

	resp, err := h.Handle(context.Background(), cmd.LambdaEvent{Database: "tenant_42"})
	require.NoError(t, err)

	assert.Equal(t, "tenant_42", got.Database)
	assert.Equal(t, "library", got.Table)
	assert.Len(t, got.Columns, 7)
	assert.Equal(t, cmd.LambdaResponse{
		RunID: "run-1", Database: "tenant_42", Table: "library",
		DatabaseCreated: true, ElapsedMs: 1500,
	}, resp)
}

func TestLambdaHandler_Error(t *testing.T) {
	boom := errors.New("boom")
	h := newTestHandler(func(ctx context.Context, target schema.TargetSchema) (*provision.Report, error) {
		return nil, boom
	})

	_, err := h.Handle(context.Background(), cmd.LambdaEvent{Action: cmd.ActionEnsure})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "products.library")
}

func TestLambdaHandler_AddAndList(t *testing.T) {
	h := newTestHandler(nil)
	var added map[string]any
	h.Add = func(ctx context.Context, target schema.TargetSchema, row map[string]any) error {
		added = row
		return nil
	}
	var gotLimit int
	h.List = func(ctx context.Context, target schema.TargetSchema, limit int) ([]map[string]any, error) {
		gotLimit = limit
		return []map[string]any{{"isbn": "978-0-441-17271-9"}}, nil
	}

	resp, err := h.Handle(context.Background(), cmd.LambdaEvent{Action: cmd.ActionAdd, Row: map[string]any{"isbn": "978-0-441-17271-9"}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Added)
	assert.Equal(t, "978-0-441-17271-9", added["isbn"])

	resp, err = h.Handle(context.Background(), cmd.LambdaEvent{Action: cmd.ActionList, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, gotLimit)
	assert.Len(t, resp.Rows, 1)
	assert.Equal(t, "library", resp.Table)

	_, err = h.Handle(context.Background(), cmd.LambdaEvent{Action: "drop"})
	assert.EqualError(t, err, `unknown action "drop"`)
}
