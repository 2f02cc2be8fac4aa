package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the target database and table if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		env, err := prepare(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("🌱 Ensuring %s.%s via %s\n", env.cfg.Target.Database, env.cfg.Target.Table, env.cfg.Engine)
		report, err := env.bootstrapper().EnsureSchema(ctx, env.admin, env.scoped, env.cfg.Target)
		if err != nil {
			return err
		}

		printReport(report.DatabaseCreated, "Database", report.Database)
		printReport(report.TableCreated, "Table", report.Table)
		fmt.Printf("Run %s finished in %s\n", report.RunID, report.Elapsed)
		return nil
	},
}

func printReport(created bool, kind, name string) {
	if created {
		fmt.Printf("[✓] %-8s : %s (created)\n", kind, name)
		return
	}
	fmt.Printf("[=] %-8s : %s (already exists)\n", kind, name)
}

func init() {
	RootCmd.AddCommand(ensureCmd)
}
