package dialect

import (
	"fmt"
	"strings"

	"db-bootstrap/internal/schema"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// ColumnDefinitions renders one line per column, in the order given.
func ColumnDefinitions(cols []schema.Column, quote func(string) string) string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		def := fmt.Sprintf("%s %s", quote(c.Name), strings.TrimSpace(c.Type))
		if cons := strings.TrimSpace(c.Constraints); cons != "" {
			def += " " + cons
		}
		lines[i] = "  " + def
	}
	return strings.Join(lines, ",\n")
}

func quoteColumns(cols []string, quote func(string) string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

// quoteString renders a SQL string literal.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func hostPort(cred schema.Credential, defaultPort int) string {
	port := cred.Port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", cred.Host, port)
}
