package schema

import (
	"fmt"
	"strings"
)

// Validate checks that the target names a database, a table and a
// well-formed, duplicate-free column list.
func (t TargetSchema) Validate() error {
	if strings.TrimSpace(t.Database) == "" {
		return fmt.Errorf("database name is required")
	}
	if strings.TrimSpace(t.Table) == "" {
		return fmt.Errorf("table name is required")
	}

	if len(t.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}

	// Normalized keys, so "ISBN" and "isbn" collide on case-folding engines
	seen := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("column %d: name is required", i+1)
		}
		if strings.TrimSpace(c.Type) == "" {
			return fmt.Errorf("column %s: type is required", c.Name)
		}
		key := strings.ToUpper(c.Name)
		if seen[key] {
			return fmt.Errorf("column %s: defined more than once", c.Name)
		}
		seen[key] = true
	}
	return nil
}

// ColumnNames returns the column names in definition order.
func (t TargetSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// DefaultLibrary is the book catalog table. Column names are the lower-case
// forms Postgres stored for the unquoted numberOfPages/releaseDate of the
// first deployment, so existing tables keep working.
func DefaultLibrary() TargetSchema {
	return TargetSchema{
		Database: "products",
		Table:    "library",
		Columns: []Column{
			{Name: "isbn", Type: "VARCHAR(50)", Constraints: "UNIQUE NOT NULL"},
			{Name: "name", Type: "VARCHAR(50)", Constraints: "NOT NULL"},
			{Name: "authors", Type: "VARCHAR(50)[]", Constraints: "NOT NULL"},
			{Name: "languages", Type: "VARCHAR(50)[]", Constraints: "NOT NULL"},
			{Name: "countries", Type: "VARCHAR(50)[]", Constraints: "NOT NULL"},
			{Name: "numberofpages", Type: "INTEGER"},
			{Name: "releasedate", Type: "VARCHAR(50)", Constraints: "NOT NULL"},
		},
	}
}
