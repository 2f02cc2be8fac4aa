package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare the live table's columns with the configured definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		env, err := prepare(ctx)
		if err != nil {
			return err
		}

		drifts, err := env.bootstrapper().Verify(ctx, env.tableCredential(), env.cfg.Target)
		if err != nil {
			return err
		}

		if len(drifts) == 0 {
			fmt.Printf("✅ %s.%s matches its definition (%d columns)\n",
				env.cfg.Target.Database, env.cfg.Target.Table, len(env.cfg.Target.Columns))
			return nil
		}

		fmt.Printf("⚠️  %s.%s has drifted:\n", env.cfg.Target.Database, env.cfg.Target.Table)
		for _, d := range drifts {
			fmt.Printf("  %-10s %-20s (defined at %d, found at %d)\n", d.Kind, d.Column, d.Expected, d.Actual)
		}
		return fmt.Errorf("%d column(s) drifted", len(drifts))
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}
