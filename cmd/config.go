package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ministrylog configuration file values.",
	Long: `Create, edit, display, and delete the ministrylog configuration file.

The configuration stores:
- profile.name / profile.department / profile.church_name (report header)
- template.path or template.url (HWPX report template)
- storage.db_path (local SQLite database)
- output.dir (export directory)
- log.mode (dev|prod)`,
	Example: `
  # Create default config in $HOME/.ministrylog.yaml
  ministrylog config create

  # Show active config and source file
  ministrylog config show

  # Open active config in editor (creates example if missing)
  ministrylog config edit

  # Delete active config file
  ministrylog config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
