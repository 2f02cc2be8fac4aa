package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add ROW_JSON",
	Short: "Insert one row given as a JSON object",
	Example: `  db-bootstrap add '{"isbn":"978-0-441-17271-9","name":"Dune","authors":["Frank Herbert"],
    "languages":["en"],"countries":["US"],"numberOfPages":412,"releaseDate":"1965-08-01"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := decodeRow([]byte(args[0]))
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		env, err := prepare(ctx)
		if err != nil {
			return err
		}
		if err := env.addRow(ctx, env.cfg.Target, row); err != nil {
			return err
		}
		fmt.Printf("[✓] Added 1 row to %s.%s\n", env.cfg.Target.Database, env.cfg.Target.Table)
		return nil
	},
}

// decodeRow parses a JSON object, keeping numbers exact.
func decodeRow(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var row map[string]any
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("invalid row: %w", err)
	}
	return row, nil
}

func init() {
	RootCmd.AddCommand(addCmd)
}
