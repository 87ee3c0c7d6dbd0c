package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ministrylog/clipboard"
	"ministrylog/config"
	"ministrylog/hwpx"
	"ministrylog/internal/logger"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"
	"ministrylog/output"

	"github.com/spf13/cobra"
)

var (
	exportWeek        string
	exportFormats     []string
	exportOutput      string
	exportDBPath      string
	exportTemplate    string
	exportTemplateURL string
	exportCopy        bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the weekly report of one week",
	Long: `Render the weekly report of the Sunday-to-Saturday week containing --week.

Formats:
- xlsx: Excel workbook in the report layout
- hwpx: Hangul document patched from the configured template
- html: flat table for pasting into a word processor (with --copy: sent to the clipboard)
- csv: the week's raw entries

Files are written to --output (default: output.dir) and named after the week and profile.`,
	Example: `
  # Workbook for the week containing 2024-06-05
  ministrylog export --week 2024-06-05 --format xlsx

  # Workbook and Hangul document into ./reports
  ministrylog export --week 2024-06-05 --format xlsx,hwpx --output ./reports

  # Copy the table to the clipboard
  ministrylog export --format html --copy
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer log.Sync()

		day, err := parseWeekFlag(exportWeek, time.Now())
		if err != nil {
			return err
		}
		return runExport(cmd.Context(), exportRequest{
			Day:          day,
			Formats:      exportFormats,
			OutputDir:    firstNonEmpty(exportOutput, cfg.Output.Dir),
			DBPath:       firstNonEmpty(exportDBPath, cfg.Storage.DBPath),
			TemplatePath: firstNonEmpty(exportTemplate, cfg.Template.Path),
			TemplateURL:  firstNonEmpty(exportTemplateURL, cfg.Template.URL),
			Copy:         exportCopy,
			Profile:      cfg.Profile,
		}, clipboard.NewSystem(), log, cmd.OutOrStdout())
	},
}

type exportRequest struct {
	Day          time.Time
	Formats      []string
	OutputDir    string
	DBPath       string
	TemplatePath string
	TemplateURL  string
	Copy         bool
	Profile      ministry.Profile
}

func runExport(ctx context.Context, req exportRequest, clip output.Clipboard, log *logger.Logger, out io.Writer) error {
	if req.Copy && !onlyClipboardFormat(req.Formats) {
		return fmt.Errorf("--copy is only supported with --format html")
	}

	store, err := openStore(req.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	input, err := output.LoadWeek(store, req.Day, req.Profile)
	if err != nil {
		return err
	}

	if req.Copy {
		if output.CopyToClipboard(ctx, clip, input) {
			fmt.Fprintf(out, "Copied week %s to the clipboard.\n", timeutil.FormatDate(input.Window.Start))
			return nil
		}
		fmt.Fprintln(out, "Clipboard unavailable; writing the HTML file instead.")
	}

	// Only the hwpx exporter reads the template, so a bad template setting
	// must not block the other formats.
	var source hwpx.TemplateSource
	sink := &output.DirSink{Dir: req.OutputDir}
	for _, format := range req.Formats {
		exporter, err := output.ExporterForFormat(format, output.ExporterOptions{Log: log})
		if err != nil {
			return err
		}
		if writer, ok := exporter.(*output.HWPXWriter); ok {
			if source == nil {
				if source, err = hwpx.NewSource(req.TemplatePath, req.TemplateURL); err != nil {
					return fmt.Errorf("report template misconfigured; check template.path/template.url: %w", err)
				}
			}
			writer.Template = source
		}
		if _, err := exporter.Export(ctx, input, sink); err != nil {
			if hwpx.IsTemplateError(err) {
				return fmt.Errorf("report template unavailable (%s); check template.path/template.url: %w", source, err)
			}
			return err
		}
		fmt.Fprintf(out, "Export completed. Week: %s, Format: %s, Entries: %d, File: %s\n",
			timeutil.FormatDate(input.Window.Start),
			exporter.Format(),
			len(input.Entries),
			sink.Written,
		)
	}
	return nil
}

func onlyClipboardFormat(formats []string) bool {
	if len(formats) != 1 {
		return false
	}
	exporter, err := output.ExporterForFormat(formats[0], output.ExporterOptions{})
	return err == nil && exporter.Format() == "html"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportWeek, "week", "", "Any date of the week YYYY-MM-DD (default: this week)")
	exportCmd.Flags().StringSliceVarP(&exportFormats, "format", "f", []string{"xlsx"}, "Output formats: "+strings.Join(output.Formats(), "|")+" (comma separated)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output directory (default: output.dir)")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default: storage.db_path)")
	exportCmd.Flags().StringVar(&exportTemplate, "template", "", "HWPX template path (default: template.path)")
	exportCmd.Flags().StringVar(&exportTemplateURL, "template-url", "", "HWPX template URL (default: template.url)")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the html table to the clipboard instead of writing a file")
}
