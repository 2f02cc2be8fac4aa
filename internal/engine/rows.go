package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"db-bootstrap/internal/dialect"
	"db-bootstrap/internal/schema"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrRowExists is returned by InsertRow when the engine dropped the row on a
// unique conflict.
var ErrRowExists = errors.New("row already exists")

// Querier runs multi-row queries. *sqlx.DB satisfies it.
type Querier interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
}

// InsertRow writes one caller-supplied row. Keys are matched to the target's
// columns case-insensitively; columns left out get their database default.
// Array columns accept a JSON-style list.
func InsertRow(ctx context.Context, exec Execer, d dialect.Dialect, target schema.TargetSchema, row map[string]any) error {
	if len(row) == 0 {
		return fmt.Errorf("row for %s has no values", target.Table)
	}

	byName := make(map[string]string, len(row))
	for k := range row {
		byName[strings.ToLower(k)] = k
	}

	var cols []string
	var values []any
	for _, c := range target.Columns {
		key, ok := byName[strings.ToLower(c.Name)]
		if !ok {
			continue
		}
		delete(byName, strings.ToLower(c.Name))

		v, err := columnValue(c, row[key])
		if err != nil {
			return err
		}
		cols = append(cols, c.Name)
		values = append(values, v)
	}
	if len(byName) > 0 {
		unknown := make([]string, 0, len(byName))
		for _, key := range byName {
			unknown = append(unknown, key)
		}
		sort.Strings(unknown)
		return fmt.Errorf("unknown column(s) %s for table %s", strings.Join(unknown, ", "), target.Table)
	}

	res, err := exec.ExecContext(ctx, d.InsertQuery(target.Database, target.Table, cols), values...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", target.Table, err)
	}
	if !rowWritten(res) {
		return fmt.Errorf("insert into %s: %w", target.Table, ErrRowExists)
	}
	return nil
}

func columnValue(c schema.Column, v any) (any, error) {
	if !strings.HasSuffix(strings.TrimSpace(c.Type), "[]") {
		return v, nil
	}
	switch list := v.(type) {
	case []string:
		return pq.Array(list), nil
	case []any:
		items := make([]string, len(list))
		for i, item := range list {
			items[i] = fmt.Sprint(item)
		}
		return pq.Array(items), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("column %s: expected a list, got %T", c.Name, v)
	}
}

// ListRows returns up to limit rows of the target's columns. Keys use the
// target's column names whatever case the engine reports.
func ListRows(ctx context.Context, q Querier, d dialect.Dialect, target schema.TargetSchema, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := q.QueryxContext(ctx, d.SelectQuery(target.Database, target.Table, target.ColumnNames(), limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", target.Table, err)
	}
	defer rows.Close()

	names := make(map[string]string, len(target.Columns))
	for _, c := range target.Columns {
		names[strings.ToLower(c.Name)] = c.Name
	}

	var out []map[string]any
	for rows.Next() {
		raw := make(map[string]any)
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", target.Table, err)
		}
		row := make(map[string]any, len(raw))
		for k, v := range raw {
			if name, ok := names[strings.ToLower(k)]; ok {
				k = name
			}
			// text and array literals come back as bytes
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[k] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", target.Table, err)
	}
	return out, nil
}
