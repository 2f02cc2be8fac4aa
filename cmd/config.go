package cmd

import (
	"context"
	"fmt"
	"strings"

	"db-bootstrap/internal/dialect"
	"db-bootstrap/internal/schema"
	"db-bootstrap/internal/secrets"

	"github.com/spf13/viper"
)

// CredentialConfig is a connection credential given inline, by secret id,
// or both (inline fields override what the secret holds).
type CredentialConfig struct {
	schema.Credential `mapstructure:",squash"`
	SecretID          string `mapstructure:"secret_id"`
}

func (c CredentialConfig) isZero() bool {
	return c.SecretID == "" && c.Credential == schema.Credential{}
}

type Config struct {
	Engine string              `mapstructure:"engine"`
	Target schema.TargetSchema `mapstructure:"target"`
	Admin  CredentialConfig    `mapstructure:"admin"`
	Scoped CredentialConfig    `mapstructure:"scoped"`
	// Credentials resolves secret ids locally before any secret store.
	Credentials map[string]schema.Credential `mapstructure:"credentials"`
	AWS    struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// envKeys are registered with viper so DBB_* variables reach Unmarshal
// even when no config file mentions them.
var envKeys = []string{
	"admin.host", "admin.port", "admin.username", "admin.password", "admin.service", "admin.sslmode", "admin.secret_id",
	"scoped.host", "scoped.port", "scoped.username", "scoped.password", "scoped.service", "scoped.sslmode", "scoped.secret_id",
	"aws.region",
}

func init() {
	for _, k := range envKeys {
		viper.SetDefault(k, "")
	}
	viper.SetDefault("admin.port", 0)
	viper.SetDefault("scoped.port", 0)
}

// LoadConfig reads the merged flag/env/file configuration. A target without
// a table falls back to the library table, keeping any database override.
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Engine == "" {
		cfg.Engine = "postgres"
	}

	if cfg.Target.Table == "" || len(cfg.Target.Columns) == 0 {
		def := schema.DefaultLibrary()
		if cfg.Target.Database != "" {
			def.Database = cfg.Target.Database
		}
		if cfg.Target.Table != "" {
			def.Table = cfg.Target.Table
		}
		cfg.Target = def
	}

	if err := checkColumnTypes(&cfg); err != nil {
		return nil, err
	}

	if cfg.Admin.isZero() {
		return nil, fmt.Errorf("admin credential is required (admin.username or admin.secret_id)")
	}
	return &cfg, nil
}

// checkColumnTypes rejects array columns on engines without array types.
// The library target relies on them, so it is Postgres-only unless columns
// are configured.
func checkColumnTypes(cfg *Config) error {
	d, err := cfg.Dialect()
	if err != nil {
		return err
	}
	if d.DriverName() == "postgres" {
		return nil
	}
	for _, c := range cfg.Target.Columns {
		if strings.HasSuffix(strings.TrimSpace(c.Type), "[]") {
			return fmt.Errorf("column %s: array type %s is only supported on postgres; configure target.columns for %s", c.Name, c.Type, cfg.Engine)
		}
	}
	return nil
}

// Dialect returns the dialect for the configured engine.
func (c *Config) Dialect() (dialect.Dialect, error) {
	return dialect.GetDialect(c.Engine)
}

// ResolveCredentials turns the configured credentials into connection
// credentials, fetching secrets through p where a secret id is set. The
// scoped credential is nil when none is configured.
func (c *Config) ResolveCredentials(ctx context.Context, p secrets.Provider) (schema.AdminCredential, *schema.Credential, error) {
	admin, err := resolve(ctx, p, c.Admin)
	if err != nil {
		return schema.AdminCredential{}, nil, fmt.Errorf("admin credential: %w", err)
	}
	if c.Scoped.isZero() {
		return admin, nil, nil
	}
	scoped, err := resolve(ctx, p, c.Scoped)
	if err != nil {
		return schema.AdminCredential{}, nil, fmt.Errorf("scoped credential: %w", err)
	}
	return admin, &scoped, nil
}

// NeedsSecrets reports whether any credential is given by secret id.
func (c *Config) NeedsSecrets() bool {
	return c.Admin.SecretID != "" || c.Scoped.SecretID != ""
}

// SecretsProvider returns the provider for the configured secret ids: the
// `credentials` map, backed by the store newRemote builds for ids the map
// does not hold. newRemote is not called when the map covers every id.
func (c *Config) SecretsProvider(ctx context.Context, newRemote func(context.Context) (secrets.Provider, error)) (secrets.Provider, error) {
	if !c.NeedsSecrets() {
		return nil, nil
	}
	local := secrets.StaticProvider(c.Credentials)
	covered := true
	for _, id := range []string{c.Admin.SecretID, c.Scoped.SecretID} {
		if id != "" && !local.Has(id) {
			covered = false
		}
	}
	if covered {
		return local, nil
	}

	remote, err := newRemote(ctx)
	if err != nil {
		return nil, err
	}
	return secrets.Chain{local, remote}, nil
}

func resolve(ctx context.Context, p secrets.Provider, cc CredentialConfig) (schema.Credential, error) {
	if cc.SecretID == "" {
		return cc.Credential, nil
	}
	if p == nil {
		return schema.Credential{}, fmt.Errorf("secret %s: no secrets provider configured", cc.SecretID)
	}
	cred, err := p.Credential(ctx, cc.SecretID)
	if err != nil {
		return schema.Credential{}, err
	}

	// Inline values win over the secret, e.g. a proxy host in front of RDS.
	if cc.Host != "" {
		cred.Host = cc.Host
	}
	if cc.Port != 0 {
		cred.Port = cc.Port
	}
	if cc.Username != "" {
		cred.Username = cc.Username
	}
	if cc.Password != "" {
		cred.Password = cc.Password
	}
	if cc.Service != "" {
		cred.Service = cc.Service
	}
	if cc.SSLMode != "" {
		cred.SSLMode = cc.SSLMode
	}
	return cred, nil
}
