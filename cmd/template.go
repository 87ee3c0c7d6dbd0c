package cmd

import (
	"fmt"

	"ministrylog/config"
	"ministrylog/hwpx"
	"ministrylog/output"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	templateCheckPath string
	templateCheckURL  string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect the HWPX report template.",
}

var templateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the HWPX template has every cell the report writes",
	Long: `Load the HWPX template, index its table cells, and check every address the
weekly report patches. Run this after replacing the template file.`,
	Example: `
  # Check the configured template
  ministrylog template check

  # Check a candidate file
  ministrylog template check --path ./new-template.hwpx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := firstNonEmpty(templateCheckPath, viper.GetString(config.KeyTemplatePath))
		rawURL := templateCheckURL
		if templateCheckPath == "" {
			rawURL = firstNonEmpty(templateCheckURL, viper.GetString(config.KeyTemplateURL))
		}

		source, err := hwpx.NewSource(path, rawURL)
		if err != nil {
			return err
		}
		pkg, err := loadTemplate(cmd, source)
		if err != nil {
			return err
		}
		if err := output.ValidateHWPXTemplate(pkg); err != nil {
			return fmt.Errorf("template %s: %w", source, err)
		}

		fmt.Printf("Template OK. Source: %s, Cells indexed: %d, Report cells: %d\n",
			source,
			len(pkg.Addresses()),
			len(output.HWPXAddresses()),
		)
		return nil
	},
}

func loadTemplate(cmd *cobra.Command, source hwpx.TemplateSource) (*hwpx.Package, error) {
	data, err := source.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	return hwpx.Open(data)
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateCheckCmd)

	templateCheckCmd.Flags().StringVar(&templateCheckPath, "path", "", "Template file path (default: template.path)")
	templateCheckCmd.Flags().StringVar(&templateCheckURL, "url", "", "Template URL (default: template.url)")
}
