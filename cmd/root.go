/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"ministrylog/config"
	"ministrylog/internal/logger"
	"ministrylog/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ministrylog",
	Short: "Record weekly ministry activities and export the weekly report.",
	Long: `
**********************************************
*              MINISTRY LOG                  *
**********************************************

This CLI records ministry activities (visitation, work, other) in a local SQLite database
and renders the weekly activity report for the Sunday-to-Saturday week as:
- Excel workbook (.xlsx)
- Hangul document patched from the office template (.hwpx)
- HTML table for pasting into a word processor (clipboard)
- CSV of the raw entries

Supported input formats:
- Excel: .xlsx, .xlsm
- CSV/TSV: .csv, .tsv
- Week files (plans and notes): .yaml
`,
	Example: `
  # Create configuration file
  ministrylog config create

  # Import activities from a spreadsheet
  ministrylog import -i ./june.xlsx

  # Record one activity
  ministrylog entry add --date 2024-06-04 --time 09:00 --category 심방 --subtype 방문 --content "김집사 댁"

  # Export the week containing a date
  ministrylog export --week 2024-06-05 --format xlsx

  # Copy the week as a table to the clipboard
  ministrylog export --week 2024-06-05 --format html --copy
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.ministrylog.yaml, then ./.ministrylog.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.FileName, ".yaml"))
	}

	viper.SetEnvPrefix("MINISTRYLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: ministrylog config create")
	}
}

// openStore opens the database named by the --db flag, falling back to
// storage.db_path from the config.
func openStore(dbFlag string) (*storage.SQLiteStore, error) {
	path := strings.TrimSpace(dbFlag)
	if path == "" {
		path = viper.GetString(config.KeyStorageDBPath)
	}
	return storage.OpenSQLite(path)
}

func newLogger(cfg *config.Config) *logger.Logger {
	mode := viper.GetString(config.KeyLogMode)
	if cfg != nil {
		mode = cfg.Log.Mode
	}
	log, err := logger.New(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logger setup failed, logging disabled: %v\n", err)
		return logger.Nop()
	}
	return log
}
