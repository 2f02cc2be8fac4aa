package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the first rows of the target table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		env, err := prepare(ctx)
		if err != nil {
			return err
		}
		target := env.cfg.Target

		rows, err := env.listRows(ctx, target, viper.GetInt("settings.list_limit"))
		if err != nil {
			return err
		}

		fmt.Printf("📚 %s.%s (%d rows)\n", target.Database, target.Table, len(rows))
		for i, row := range rows {
			fields := make([]string, 0, len(target.Columns))
			for _, name := range target.ColumnNames() {
				fields = append(fields, fmt.Sprintf("%s=%v", name, row[name]))
			}
			fmt.Printf("[%02d] %s\n", i+1, strings.Join(fields, ", "))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listCmd)

	listCmd.Flags().Int("limit", 10, "Number of rows to show")
	viper.BindPFlag("settings.list_limit", listCmd.Flags().Lookup("limit"))
	viper.SetDefault("settings.list_limit", 10)
}
