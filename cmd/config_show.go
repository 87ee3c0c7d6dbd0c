package cmd

import (
	"fmt"

	"ministrylog/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  ministrylog config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("profile.name: %s\n", cfg.Profile.Name)
		fmt.Printf("profile.department: %s\n", cfg.Profile.Department)
		fmt.Printf("profile.church_name: %s\n", cfg.Profile.Church())
		fmt.Printf("template.path: %s\n", cfg.Template.Path)
		fmt.Printf("template.url: %s\n", cfg.Template.URL)
		fmt.Printf("storage.db_path: %s\n", cfg.Storage.DBPath)
		fmt.Printf("output.dir: %s\n", cfg.Output.Dir)
		fmt.Printf("log.mode: %s\n", cfg.Log.Mode)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
