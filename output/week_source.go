package output

import (
	"fmt"
	"time"

	"ministrylog/internal/timeutil"
	"ministrylog/ministry"
)

// WeekSource reads the stored records of one week.
type WeekSource interface {
	ListEntriesBetween(from, to time.Time) ([]ministry.Entry, error)
	GetPlan(day time.Time) (*ministry.WeeklyPlan, error)
	GetNote(day time.Time) (*ministry.WeeklyNote, error)
}

// LoadWeek snapshots the week containing anyDay. A missing plan or note is
// left nil.
func LoadWeek(src WeekSource, anyDay time.Time, profile ministry.Profile) (WeekInput, error) {
	window := timeutil.WeekOf(anyDay)
	entries, err := src.ListEntriesBetween(window.Start, window.End())
	if err != nil {
		return WeekInput{}, fmt.Errorf("load week entries: %w", err)
	}
	plan, err := src.GetPlan(window.Start)
	if err != nil {
		return WeekInput{}, fmt.Errorf("load week plan: %w", err)
	}
	note, err := src.GetNote(window.Start)
	if err != nil {
		return WeekInput{}, fmt.Errorf("load week note: %w", err)
	}
	return NewWeekInput(window.Start, entries, plan, note, profile), nil
}
