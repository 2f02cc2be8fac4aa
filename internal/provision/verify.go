package provision

import (
	"context"

	"db-bootstrap/internal/schema"
)

// Verify reads the live column list of target.Table and reports how it
// differs from target.Columns. A missing table reports every column as
// missing.
func (b *Bootstrapper) Verify(ctx context.Context, cred schema.Credential, target schema.TargetSchema) ([]schema.Drift, error) {
	if err := target.Validate(); err != nil {
		return nil, &ProvisionError{Kind: ErrInvalidTarget, Phase: PhaseValidate, Object: target.Database + "." + target.Table, Err: err}
	}

	sess, err := b.connector.Connect(ctx, cred, target.Database)
	if err != nil {
		return nil, &ProvisionError{Kind: ErrConnectionFailed, Phase: PhaseTable, Object: target.Table, Err: err}
	}
	defer b.closeSession("verify", sess)

	query, args := b.dialect.ColumnsQuery(target.Database, target.Table)
	var live []string
	if err := sess.SelectContext(ctx, &live, query, args...); err != nil {
		return nil, &ProvisionError{Kind: ErrQueryFailed, Phase: PhaseTable, Object: target.Table, Err: err}
	}

	return schema.CompareColumns(target.Columns, live), nil
}
