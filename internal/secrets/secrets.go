// Package secrets resolves database credentials from an external secret
// store. The payload format is the one RDS writes for managed secrets:
//
//	{"engine":"postgres","host":"...","port":5432,"username":"...","password":"...","dbname":"..."}
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"db-bootstrap/internal/schema"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Provider returns the credential stored under id.
type Provider interface {
	Credential(ctx context.Context, id string) (schema.Credential, error)
}

// SecretsManagerAPI is the subset of the Secrets Manager client we call.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerProvider reads credentials from AWS Secrets Manager.
type SecretsManagerProvider struct {
	client SecretsManagerAPI
}

func NewSecretsManagerProvider(client SecretsManagerAPI) *SecretsManagerProvider {
	return &SecretsManagerProvider{client: client}
}

// NewAWSProvider builds a provider from the default AWS credential chain.
// An empty region defers to AWS_REGION / shared config.
func NewAWSProvider(ctx context.Context, region string) (*SecretsManagerProvider, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSecretsManagerProvider(secretsmanager.NewFromConfig(cfg)), nil
}

func (p *SecretsManagerProvider) Credential(ctx context.Context, id string) (schema.Credential, error) {
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(id)})
	if err != nil {
		return schema.Credential{}, fmt.Errorf("failed to get secret %s: %w", id, err)
	}

	var payload []byte
	switch {
	case out.SecretString != nil:
		payload = []byte(aws.ToString(out.SecretString))
	case out.SecretBinary != nil:
		payload = out.SecretBinary
	default:
		return schema.Credential{}, fmt.Errorf("secret %s has no value", id)
	}

	cred, err := ParseSecret(payload)
	if err != nil {
		return schema.Credential{}, fmt.Errorf("secret %s: %w", id, err)
	}
	return cred, nil
}

// ErrNotFound is returned by providers that do not hold the requested id.
var ErrNotFound = errors.New("secret not found")

// StaticProvider serves credentials held in configuration (the
// `credentials` map), keyed by the same ids a secret store would use.
type StaticProvider map[string]schema.Credential

func (p StaticProvider) Credential(ctx context.Context, id string) (schema.Credential, error) {
	cred, ok := p.lookup(id)
	if !ok {
		return schema.Credential{}, fmt.Errorf("no credential configured for %q: %w", id, ErrNotFound)
	}
	return cred, nil
}

// Has reports whether id is configured.
func (p StaticProvider) Has(id string) bool {
	_, ok := p.lookup(id)
	return ok
}

// lookup falls back to a case-insensitive match; viper lower-cases map keys.
func (p StaticProvider) lookup(id string) (schema.Credential, bool) {
	if cred, ok := p[id]; ok {
		return cred, true
	}
	for k, cred := range p {
		if strings.EqualFold(k, id) {
			return cred, true
		}
	}
	return schema.Credential{}, false
}

// Chain asks each provider in turn, moving on only when one reports
// ErrNotFound.
type Chain []Provider

func (c Chain) Credential(ctx context.Context, id string) (schema.Credential, error) {
	for _, p := range c {
		cred, err := p.Credential(ctx, id)
		if err == nil {
			return cred, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return schema.Credential{}, err
		}
	}
	return schema.Credential{}, fmt.Errorf("secret %s: %w", id, ErrNotFound)
}

type secretPayload struct {
	Engine   string          `json:"engine"`
	Host     string          `json:"host"`
	Port     json.RawMessage `json:"port"` // number or string, depending on who wrote it
	Username string          `json:"username"`
	Password string          `json:"password"`
	DBName   string          `json:"dbname"`
	Service  string          `json:"service"`
	SSLMode  string          `json:"sslmode"`
}

// ParseSecret decodes an RDS-style secret into a Credential.
func ParseSecret(data []byte) (schema.Credential, error) {
	var p secretPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return schema.Credential{}, fmt.Errorf("invalid secret payload: %w", err)
	}
	if p.Username == "" {
		return schema.Credential{}, fmt.Errorf("secret payload has no username")
	}

	port, err := parsePort(p.Port)
	if err != nil {
		return schema.Credential{}, err
	}

	service := p.Service
	if service == "" && p.Engine == "oracle" {
		service = p.DBName // RDS stores the Oracle SID/service as dbname
	}

	return schema.Credential{
		Host:     p.Host,
		Port:     port,
		Username: p.Username,
		Password: p.Password,
		Service:  service,
		SSLMode:  p.SSLMode,
	}, nil
}

func parsePort(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid port %s", raw)
	}
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	return n, nil
}
