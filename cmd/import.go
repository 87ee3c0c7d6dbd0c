package cmd

import (
	"fmt"

	"ministrylog/importer"

	"github.com/spf13/cobra"
)

var (
	importInputs    []string
	importFormat    string
	importDBPath    string
	importWeekFiles []string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import activity entries and week files into the local SQLite database",
	Long: `Read source files, validate each row as an activity entry, and persist results in SQLite.

Entry files need the columns date, time, category, subtype and content (English or Korean
headers: 날짜, 시간, 구분, 세부구분, 내용). Optional columns: highlight/중요, id.
When --format is omitted, format is inferred from each input file extension.
Rows with an id that is already stored are skipped, so re-importing a file is safe.

Week files (--week-file) are YAML documents with the week's plans, special note
and dawn prayer days; they replace the stored plan and note of that week.`,
	Example: `
  # Import an Excel sheet of activities
  ministrylog import -i ./june.xlsx

  # Import a CSV exported by "ministrylog export --format csv"
  ministrylog import -i ./활동기록_2024-06-02_홍길동.csv --db ./ministrylog.db

  # Import plans and notes for one week
  ministrylog import --week-file ./2024-06-02.yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(importInputs) == 0 && len(importWeekFiles) == 0 {
			return fmt.Errorf("nothing to import: pass --input and/or --week-file")
		}

		result, err := importer.Run(importInputs, importFormat, &importer.EntryMapper{})
		if err != nil {
			return err
		}

		store, err := openStore(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		inserted, err := store.InsertEntries(result.Entries)
		if err != nil {
			return err
		}

		if len(importInputs) > 0 {
			fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d\n",
				result.FilesProcessed,
				result.RowsRead,
				result.RowsMapped,
				result.RowsSkipped,
				inserted,
			)
		}

		for _, path := range importWeekFiles {
			plan, note, err := importer.ReadWeekFile(path)
			if err != nil {
				return err
			}
			if err := store.SavePlan(*plan); err != nil {
				return err
			}
			if err := store.SaveNote(*note); err != nil {
				return err
			}
			fmt.Printf("Week file imported. Week: %s, Plans: %d, Dawn prayer days: %d\n",
				plan.WeekStart.Format("2006-01-02"),
				len(plan.Plans),
				len(note.AttendedDays()),
			)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|tsv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringArrayVarP(&importWeekFiles, "week-file", "w", nil, "YAML week file with plans and notes (repeatable)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default: storage.db_path)")
}
