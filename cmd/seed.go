package cmd

import (
	"fmt"
	"log"
	"time"

	"db-bootstrap/internal/engine"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	count     int
	cleanSeed bool
	dryRun    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the target table with generated rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		env, err := prepare(ctx)
		if err != nil {
			return err
		}
		target := env.cfg.Target
		targetCount := viper.GetInt("settings.default_count")

		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			fmt.Printf("🔍 %s.%s would receive %d rows:\n", target.Database, target.Table, targetCount)
			for i, c := range target.Columns {
				note := ""
				if engine.IsGenerated(c) {
					note = " (generated, skipped)"
				}
				fmt.Printf("[%02d] %-20s %s%s\n", i+1, c.Name, c.Type, note)
			}
			return nil
		}

		sess, err := env.connectTarget(ctx, target)
		if err != nil {
			return err
		}
		defer sess.Close()

		if cleanSeed {
			if err := cleanTable(ctx, sess, env); err != nil {
				return err
			}
		}

		log.Printf("Starting seed with count=%d...", targetCount)
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(targetCount).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return target.Table + ": "
		})

		result, err := engine.Seed(ctx, sess, env.dialect, target, targetCount, func() {
			bar.Incr()
		})
		uiprogress.Stop()
		if err != nil {
			return err
		}

		actual, err := engine.CountRows(ctx, sess, env.dialect, target)
		if err != nil {
			return err
		}

		icon := "✓"
		if result.Status != engine.StatusOK {
			icon = "!"
		}
		fmt.Println("\n📊 Summary Report:")
		fmt.Printf("[%s] %-20s : %d inserted in %d attempts, %d rows total (Target: %d) - %s\n",
			icon, result.TableName, result.Inserted, result.Attempts, actual, result.Target, result.Status)
		if result.ErrorMsg != "" {
			fmt.Printf("    └ Error: %s\n", result.ErrorMsg)
		}
		log.Printf("Seed Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&count, "count", 0, "Number of rows to generate (overrides config)")
	seedCmd.Flags().BoolVar(&cleanSeed, "clean", false, "Truncate the table before seeding")
	seedCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without writing")

	viper.BindPFlag("settings.default_count", seedCmd.Flags().Lookup("count"))
	viper.SetDefault("settings.default_count", 100)
}
