package cmd

import (
	"context"
	"fmt"

	"db-bootstrap/internal/provision"
	"db-bootstrap/internal/schema"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

const (
	ActionEnsure = "ensure"
	ActionAdd    = "add"
	ActionList   = "list"
)

// LambdaEvent selects what an invocation does (ensure when empty) and may
// override the configured target names. Columns always come from
// configuration.
type LambdaEvent struct {
	Action   string         `json:"action,omitempty"`
	Database string         `json:"database,omitempty"`
	Table    string         `json:"table,omitempty"`
	Row      map[string]any `json:"row,omitempty"`   // add
	Limit    int            `json:"limit,omitempty"` // list
}

type LambdaResponse struct {
	RunID           string           `json:"runId,omitempty"`
	Database        string           `json:"database"`
	Table           string           `json:"table"`
	DatabaseCreated bool             `json:"databaseCreated"`
	TableCreated    bool             `json:"tableCreated"`
	ElapsedMs       int64            `json:"elapsedMs"`
	Added           int              `json:"added,omitempty"`
	Rows            []map[string]any `json:"rows,omitempty"`
}

// LambdaHandler dispatches invocations. A failed invocation returns the
// error so Lambda records it and may retry; ensure is idempotent, and add
// reports a duplicate row instead of writing it twice.
type LambdaHandler struct {
	Target schema.TargetSchema
	Ensure func(ctx context.Context, target schema.TargetSchema) (*provision.Report, error)
	Add    func(ctx context.Context, target schema.TargetSchema, row map[string]any) error
	List   func(ctx context.Context, target schema.TargetSchema, limit int) ([]map[string]any, error)
}

func (h *LambdaHandler) Handle(ctx context.Context, ev LambdaEvent) (LambdaResponse, error) {
	target := h.Target
	if ev.Database != "" {
		target.Database = ev.Database
	}
	if ev.Table != "" {
		target.Table = ev.Table
	}
	resp := LambdaResponse{Database: target.Database, Table: target.Table}

	switch ev.Action {
	case "", ActionEnsure:
		report, err := h.Ensure(ctx, target)
		if err != nil {
			return LambdaResponse{}, fmt.Errorf("ensure %s.%s: %w", target.Database, target.Table, err)
		}
		resp.RunID = report.RunID
		resp.DatabaseCreated = report.DatabaseCreated
		resp.TableCreated = report.TableCreated
		resp.ElapsedMs = report.Elapsed.Milliseconds()
	case ActionAdd:
		if err := h.Add(ctx, target, ev.Row); err != nil {
			return LambdaResponse{}, fmt.Errorf("add to %s.%s: %w", target.Database, target.Table, err)
		}
		resp.Added = 1
	case ActionList:
		rows, err := h.List(ctx, target, ev.Limit)
		if err != nil {
			return LambdaResponse{}, fmt.Errorf("list %s.%s: %w", target.Database, target.Table, err)
		}
		resp.Rows = rows
	default:
		return LambdaResponse{}, fmt.Errorf("unknown action %q", ev.Action)
	}
	return resp, nil
}

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an AWS Lambda function handler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		env, err := prepare(ctx)
		cancel()
		if err != nil {
			return err
		}

		// Credentials are resolved once per cold start.
		b := env.bootstrapper()
		h := &LambdaHandler{
			Target: env.cfg.Target,
			Ensure: func(ctx context.Context, target schema.TargetSchema) (*provision.Report, error) {
				return b.EnsureSchema(ctx, env.admin, env.scoped, target)
			},
			Add:  env.addRow,
			List: env.listRows,
		}
		lambda.Start(h.Handle)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lambdaCmd)
}
