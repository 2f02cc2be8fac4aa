package cmd

import (
	"context"
	"fmt"
	"log"

	"db-bootstrap/internal/dialect"
	"db-bootstrap/internal/engine"
	"db-bootstrap/internal/provision"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all rows from the target table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		env, err := prepare(ctx)
		if err != nil {
			return err
		}

		sess, err := env.connectTarget(ctx, env.cfg.Target)
		if err != nil {
			return err
		}
		defer sess.Close()

		return cleanTable(ctx, sess, env)
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
}

// cleanTable empties the target table. The table itself is kept.
func cleanTable(ctx context.Context, sess provision.Session, env *runEnv) error {
	target := env.cfg.Target
	query := env.dialect.TruncateQuery(target.Database, target.Table)
	// MSSQL: TRUNCATE fails on referenced tables, DELETE does not
	if _, ok := env.dialect.(*dialect.MSSQLDialect); ok {
		query = fmt.Sprintf("DELETE FROM %s", env.dialect.TableRef(target.Database, target.Table))
	}

	log.Printf("Cleaning %s...", target.Table)
	if _, err := sess.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clean %s: %w", target.Table, err)
	}

	left, err := engine.CountRows(ctx, sess, env.dialect, target)
	if err != nil {
		return err
	}
	log.Printf("Table %s cleaned (%d rows left)", target.Table, left)
	return nil
}
