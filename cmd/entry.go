package cmd

import (
	"fmt"
	"strings"
	"time"

	"ministrylog/internal/timegrid"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"

	"github.com/spf13/cobra"
)

var (
	entryDBPath    string
	entryDate      string
	entryTime      string
	entryCategory  string
	entrySubType   string
	entryContent   string
	entryHighlight bool
	entryListWeek  string
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Add, list, and delete activity entries.",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record one activity entry",
	Long: `Record one activity in a time slot of the weekly report grid.

Categories: 심방 (visitation), 업무 (work), 기타 (other).
Subtypes: 심방 → 방문|카페|전화, 업무 → 회의|행정|기타, 기타 → 새벽기도|기타.
The time must be one of the report slots (05:00 .. 23:00, lunch 11:40, dinner 17:00).`,
	Example: `
  # Home visit on Tuesday morning
  ministrylog entry add --date 2024-06-04 --time 09:00 --category 심방 --subtype 방문 --content "김집사 댁"

  # Highlighted meeting today
  ministrylog entry add --time 14:00 --category work --subtype meeting --content "교역자 회의" --highlight
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := buildEntry(entryDate, entryTime, entryCategory, entrySubType, entryContent, entryHighlight, time.Now())
		if err != nil {
			return err
		}

		store, err := openStore(entryDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := store.InsertEntries([]ministry.Entry{entry}); err != nil {
			return err
		}
		fmt.Printf("Entry added. ID: %s, Date: %s, Time: %s, %s/%s\n",
			entry.ID,
			timeutil.FormatDate(entry.Date),
			entry.TimeSlot,
			entry.Category,
			entry.SubType,
		)
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of one week",
	Example: `
  # Entries of the week containing 2024-06-05
  ministrylog entry list --week 2024-06-05
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseWeekFlag(entryListWeek, time.Now())
		if err != nil {
			return err
		}
		window := timeutil.WeekOf(day)

		store, err := openStore(entryDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ListEntriesBetween(window.Start, window.End())
		if err != nil {
			return err
		}

		fmt.Printf("Week %s ~ %s: %d entries\n", timeutil.FormatDate(window.Start), timeutil.FormatDate(window.End()), len(entries))
		for _, entry := range entries {
			marker := " "
			if entry.IsHighlight {
				marker = "*"
			}
			fmt.Printf("%s %s %s %-5s %s/%s %s\n",
				marker,
				entry.ID,
				timeutil.FormatDate(entry.Date),
				entry.TimeSlot,
				entry.Category,
				entry.SubType,
				strings.ReplaceAll(entry.Content, "\n", " / "),
			)
		}
		return nil
	},
}

// buildEntry validates command-line input into a new entry. The date defaults
// to today.
func buildEntry(date, slot, category, subType, content string, highlight bool, now time.Time) (ministry.Entry, error) {
	day := timeutil.Date(now)
	if strings.TrimSpace(date) != "" {
		parsed, err := timeutil.ParseDate(date)
		if err != nil {
			return ministry.Entry{}, err
		}
		day = parsed
	}

	if !timegrid.Contains(slot) {
		return ministry.Entry{}, fmt.Errorf("time %q is not a report slot (valid: %s)", slot, strings.Join(timegrid.Slots(), ", "))
	}
	if strings.TrimSpace(content) == "" {
		return ministry.Entry{}, fmt.Errorf("content must not be empty")
	}

	parsedCategory, err := ministry.ParseCategory(category)
	if err != nil {
		return ministry.Entry{}, err
	}
	parsedSubType, err := ministry.ParseSubType(parsedCategory, subType)
	if err != nil {
		return ministry.Entry{}, err
	}

	entry := ministry.Entry{
		ID:          ministry.NewID(),
		Date:        day,
		TimeSlot:    slot,
		Category:    parsedCategory,
		SubType:     parsedSubType,
		Content:     strings.TrimSpace(content),
		IsHighlight: highlight,
		CreatedAt:   now.UTC(),
	}
	return entry, ministry.Validate(entry)
}

// parseWeekFlag resolves a --week value; empty means the current week.
func parseWeekFlag(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return timeutil.Date(now), nil
	}
	day, err := timeutil.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --week value: %w", err)
	}
	return day, nil
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryListCmd)

	entryCmd.PersistentFlags().StringVar(&entryDBPath, "db", "", "Path to local SQLite database (default: storage.db_path)")

	entryAddCmd.Flags().StringVar(&entryDate, "date", "", "Activity date YYYY-MM-DD (default: today)")
	entryAddCmd.Flags().StringVar(&entryTime, "time", "", "Time slot, e.g. 09:00")
	entryAddCmd.Flags().StringVar(&entryCategory, "category", "", "Category: 심방|업무|기타 (or visitation|work|other)")
	entryAddCmd.Flags().StringVar(&entrySubType, "subtype", "", "Subtype within the category")
	entryAddCmd.Flags().StringVar(&entryContent, "content", "", "Activity description")
	entryAddCmd.Flags().BoolVar(&entryHighlight, "highlight", false, "Mark the entry as highlighted")
	_ = entryAddCmd.MarkFlagRequired("time")
	_ = entryAddCmd.MarkFlagRequired("category")
	_ = entryAddCmd.MarkFlagRequired("subtype")
	_ = entryAddCmd.MarkFlagRequired("content")

	entryListCmd.Flags().StringVar(&entryListWeek, "week", "", "Any date of the week YYYY-MM-DD (default: this week)")
}
