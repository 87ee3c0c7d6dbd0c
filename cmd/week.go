package cmd

import (
	"fmt"
	"strings"
	"time"

	"ministrylog/internal/timeutil"
	"ministrylog/ministry"

	"github.com/spf13/cobra"
)

var (
	weekDBPath   string
	planWeek     string
	planSlot     string
	planText     string
	noteWeek     string
	noteText     string
	noteDawnDays []string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the next-week plan column of a weekly report.",
}

var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one plan line of a week",
	Long: `Set the plan text of one day (주일, 월 .. 토) or of the remarks line (비고).

Other plan lines of the week are kept. An empty --text clears the line.`,
	Example: `
  # Plan for Tuesday of the week containing 2024-06-05
  ministrylog plan set --week 2024-06-05 --slot 화 --text "교사 모임"

  # Remarks line
  ministrylog plan set --week 2024-06-05 --slot remarks --text "수련회 준비"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseWeekFlag(planWeek, time.Now())
		if err != nil {
			return err
		}
		slot, err := ministry.ParsePlanSlot(planSlot)
		if err != nil {
			return err
		}

		store, err := openStore(weekDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		plan, err := store.GetPlan(day)
		if err != nil {
			return err
		}
		plan = withPlanText(plan, timeutil.WeekOf(day).Start, slot, planText)
		if err := store.SavePlan(*plan); err != nil {
			return err
		}

		fmt.Printf("Plan saved. Week: %s, Line: %s, Lines set: %d\n",
			timeutil.FormatDate(plan.WeekStart),
			slot.Label(),
			len(plan.Plans),
		)
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage the special note and dawn prayer attendance of a weekly report.",
}

var noteSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the special note and dawn prayer days of a week",
	Long: `Replace the special note and the dawn prayer attendance of one week.

Dawn prayer days are weekdays 월 .. 금 (or mon .. fri), comma separated or repeated.`,
	Example: `
  # Note with attendance on Monday and Wednesday
  ministrylog note set --week 2024-06-05 --text "특이 사항 없음" --dawn 월,수
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseWeekFlag(noteWeek, time.Now())
		if err != nil {
			return err
		}
		days, err := parseDawnDays(noteDawnDays)
		if err != nil {
			return err
		}

		store, err := openStore(weekDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		note := ministry.WeeklyNote{
			WeekStart:      timeutil.WeekOf(day).Start,
			SpecialNote:    noteText,
			DawnPrayerDays: days,
		}
		if err := store.SaveNote(note); err != nil {
			return err
		}

		fmt.Printf("Note saved. Week: %s, Dawn prayer: %s\n",
			timeutil.FormatDate(note.WeekStart),
			strings.Join(note.AttendedDays(), ","),
		)
		return nil
	},
}

// withPlanText returns plan with one line replaced, creating the plan when
// none is stored yet.
func withPlanText(plan *ministry.WeeklyPlan, weekStart time.Time, slot ministry.PlanSlot, text string) *ministry.WeeklyPlan {
	if plan == nil {
		plan = &ministry.WeeklyPlan{WeekStart: weekStart}
	}
	if plan.Plans == nil {
		plan.Plans = make(map[ministry.PlanSlot]string)
	}
	if strings.TrimSpace(text) == "" {
		delete(plan.Plans, slot)
	} else {
		plan.Plans[slot] = text
	}
	return plan
}

func parseDawnDays(values []string) ([]string, error) {
	days := make([]string, 0, len(values))
	for _, value := range values {
		for _, raw := range strings.Split(value, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			label, ok := ministry.NormalizeDawnDay(raw)
			if !ok {
				return nil, fmt.Errorf("invalid dawn prayer day %q (valid: %s)", raw, strings.Join(ministry.DawnDayLabels(), ", "))
			}
			days = append(days, label)
		}
	}
	return days, nil
}

func init() {
	rootCmd.AddCommand(planCmd, noteCmd)
	planCmd.AddCommand(planSetCmd)
	noteCmd.AddCommand(noteSetCmd)

	for _, command := range []*cobra.Command{planCmd, noteCmd} {
		command.PersistentFlags().StringVar(&weekDBPath, "db", "", "Path to local SQLite database (default: storage.db_path)")
	}

	planSetCmd.Flags().StringVar(&planWeek, "week", "", "Any date of the week YYYY-MM-DD (default: this week)")
	planSetCmd.Flags().StringVar(&planSlot, "slot", "", "Plan line: 주일|월|화|수|목|금|토|비고 (or sun..sat, remarks)")
	planSetCmd.Flags().StringVar(&planText, "text", "", "Plan text (empty clears the line)")
	_ = planSetCmd.MarkFlagRequired("slot")

	noteSetCmd.Flags().StringVar(&noteWeek, "week", "", "Any date of the week YYYY-MM-DD (default: this week)")
	noteSetCmd.Flags().StringVar(&noteText, "text", "", "Special note text")
	noteSetCmd.Flags().StringSliceVar(&noteDawnDays, "dawn", nil, "Dawn prayer days, e.g. 월,수")
}
