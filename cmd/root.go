package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	engineName string
	verbose    bool
)

var RootCmd = &cobra.Command{
	Use:   "db-bootstrap",
	Short: "Idempotent database and table provisioning",
	Long: `
  ____  ____    ____   ___   ___ _____ 
 |  _ \| __ )  | __ ) / _ \ / _ \_   _|
 | | | |  _ \  |  _ \| | | | | | || |  
 | |_| | |_) | | |_) | |_| | |_| || |  
 |____/|____/  |____/ \___/ \___/ |_|  

DB BOOTSTRAP 🌱 - Creates the database and table if they are missing
`,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-bootstrap.yaml)")
	RootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "database engine: postgres, mysql, sqlserver, oracle")
	RootCmd.PersistentFlags().String("database", "", "target database name (overrides config)")
	RootCmd.PersistentFlags().String("table", "", "target table name (overrides config)")
	RootCmd.PersistentFlags().Duration("timeout", 0, "overall timeout per command")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viper.BindPFlag("engine", RootCmd.PersistentFlags().Lookup("engine"))
	viper.BindPFlag("target.database", RootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("target.table", RootCmd.PersistentFlags().Lookup("table"))
	viper.BindPFlag("settings.timeout", RootCmd.PersistentFlags().Lookup("timeout"))

	viper.SetDefault("engine", "postgres")
	viper.SetDefault("settings.timeout", 2*time.Minute)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-bootstrap")
		viper.SetConfigType("yaml")
	}

	// DBB_ADMIN_PASSWORD -> admin.password
	viper.SetEnvPrefix("DBB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
