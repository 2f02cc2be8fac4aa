package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"db-bootstrap/internal/dialect"
	"db-bootstrap/internal/schema"
)

// Execer runs statements against one database session.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Getter runs single-row queries.
type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// SeedResult is the per-table report.
type SeedResult struct {
	TableName string
	Target    int
	Inserted  int
	Attempts  int
	Status    string
	ErrorMsg  string
}

const (
	StatusOK      = "OK"
	StatusPartial = "MISSING DATA"
)

// Seed inserts count rows of generated data into target.Table. Generated
// columns (SERIAL, IDENTITY) are skipped; UNIQUE / PRIMARY KEY columns never
// receive a repeated value. Gives up after count*10 attempts.
func Seed(ctx context.Context, exec Execer, d dialect.Dialect, target schema.TargetSchema, count int, onProgress func()) (SeedResult, error) {
	result := SeedResult{TableName: target.Table, Target: count}

	var insertCols []schema.Column
	var colNames []string
	for _, c := range target.Columns {
		if !IsGenerated(c) {
			insertCols = append(insertCols, c)
			colNames = append(colNames, c.Name)
		}
	}
	if len(insertCols) == 0 {
		return result, fmt.Errorf("table %s has no insertable columns", target.Table)
	}

	query := d.InsertQuery(target.Database, target.Table, colNames)

	// Track used values for UNIQUE columns
	usedUniqueValues := make(map[string]map[string]bool)
	for _, c := range insertCols {
		if IsUnique(c) {
			usedUniqueValues[c.Name] = make(map[string]bool)
		}
	}

	// 목표치 채우기 로직 (중복 시 재시도)
	for result.Inserted < count && result.Attempts < count*10 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Attempts++

		values := make([]any, len(insertCols))
		for i, c := range insertCols {
			values[i] = GenerateValue(c)
		}

		skipRow := false
		for i, c := range insertCols {
			if used, ok := usedUniqueValues[c.Name]; ok && used[fmt.Sprint(values[i])] {
				skipRow = true
				break
			}
		}
		if skipRow {
			continue
		}

		res, err := exec.ExecContext(ctx, query, values...)
		if err != nil {
			if result.Attempts <= 3 {
				// Log first 3 errors
				log.Printf("[DEBUG] Table %s attempt %d: %v\nQuery: %s\n", target.Table, result.Attempts, err, query)
			}
			result.ErrorMsg = err.Error()
			continue
		}
		// ON CONFLICT DO NOTHING / INSERT IGNORE report success with no row
		if !rowWritten(res) {
			result.ErrorMsg = "row skipped: conflicts with existing data"
			continue
		}

		// Mark UNIQUE values as used
		for i, c := range insertCols {
			if used, ok := usedUniqueValues[c.Name]; ok {
				used[fmt.Sprint(values[i])] = true
			}
		}
		result.Inserted++
		if onProgress != nil {
			onProgress()
		}
	}

	result.Status = StatusOK
	if result.Inserted < count {
		result.Status = StatusPartial
		if result.ErrorMsg == "" {
			result.ErrorMsg = fmt.Sprintf("Only inserted %d out of %d. Too few distinct values for unique columns?", result.Inserted, count)
		}
	} else {
		result.ErrorMsg = ""
	}
	return result, nil
}

// rowWritten reports whether an insert stored its row. Drivers that cannot
// report affected rows are trusted.
func rowWritten(res sql.Result) bool {
	if res == nil {
		return true
	}
	n, err := res.RowsAffected()
	return err != nil || n > 0
}

// CountRows returns the current row count of target.Table.
func CountRows(ctx context.Context, g Getter, d dialect.Dialect, target schema.TargetSchema) (int, error) {
	var n int
	if err := g.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", d.TableRef(target.Database, target.Table))); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", target.Table, err)
	}
	return n, nil
}
