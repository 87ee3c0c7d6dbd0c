package output

import (
	"time"

	"ministrylog/internal/timegrid"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"
)

// WeekInput is the read-only snapshot one export call works on.
type WeekInput struct {
	Window  timeutil.WeekWindow
	Entries []ministry.Entry
	Plan    *ministry.WeeklyPlan
	Note    *ministry.WeeklyNote
	Profile ministry.Profile
}

// NewWeekInput normalises any date of the week to its Sunday window.
func NewWeekInput(anyDay time.Time, entries []ministry.Entry, plan *ministry.WeeklyPlan, note *ministry.WeeklyNote, profile ministry.Profile) WeekInput {
	return WeekInput{
		Window:  timeutil.WeekOf(anyDay),
		Entries: entries,
		Plan:    plan,
		Note:    note,
		Profile: profile,
	}
}

type cellKey struct {
	slot string
	day  int
}

// VisitCounts tallies visitation subtypes per day and for the whole week.
type VisitCounts struct {
	perDay [7]map[ministry.VisitKind]int
	total  map[ministry.VisitKind]int
}

func newVisitCounts() VisitCounts {
	counts := VisitCounts{total: make(map[ministry.VisitKind]int, 3)}
	for i := range counts.perDay {
		counts.perDay[i] = make(map[ministry.VisitKind]int, 3)
	}
	return counts
}

// Day returns the count of one visit kind on a day offset (0 = Sunday).
func (c VisitCounts) Day(day int, kind ministry.VisitKind) int {
	if day < 0 || day >= len(c.perDay) || c.perDay[day] == nil {
		return 0
	}
	return c.perDay[day][kind]
}

// Total returns the week-wide count of one visit kind.
func (c VisitCounts) Total(kind ministry.VisitKind) int {
	return c.total[kind]
}

// WeeklySummary is the aggregated week every renderer consumes.
type WeeklySummary struct {
	Window  timeutil.WeekWindow
	Visits  VisitCounts
	Placed  int
	Skipped int

	cells map[cellKey][]ministry.Entry
}

// BuildWeeklySummary groups entries by (slot, day offset) in input order and
// tallies visitation kinds. Entries dated outside the window or carrying a
// slot that is not on the grid are dropped from both.
func BuildWeeklySummary(window timeutil.WeekWindow, entries []ministry.Entry) WeeklySummary {
	summary := WeeklySummary{
		Window: window,
		Visits: newVisitCounts(),
		cells:  make(map[cellKey][]ministry.Entry),
	}

	for _, entry := range entries {
		day, inside := window.DayOffset(entry.Date)
		if !inside || !timegrid.Contains(entry.TimeSlot) {
			summary.Skipped++
			continue
		}

		key := cellKey{slot: entry.TimeSlot, day: day}
		summary.cells[key] = append(summary.cells[key], entry)
		summary.Placed++

		if entry.Category != ministry.CategoryVisitation {
			continue
		}
		if kind := entry.SubType.VisitKind(); kind != "" {
			summary.Visits.perDay[day][kind]++
			summary.Visits.total[kind]++
		}
	}

	return summary
}

// Cell returns the entries placed at (slot, day) in input order.
func (s WeeklySummary) Cell(slot string, day int) []ministry.Entry {
	return s.cells[cellKey{slot: slot, day: day}]
}

// categoryMarker is the glyph prefixed to an entry in spreadsheet and
// clipboard output.
func categoryMarker(category ministry.Category) string {
	switch category {
	case ministry.CategoryVisitation:
		return "■ "
	case ministry.CategoryWork:
		return "● "
	default:
		return ""
	}
}

// entryLines renders a cell's entries as marked paragraphs separated by one
// blank line.
func entryLines(entries []ministry.Entry) []string {
	lines := make([]string, 0, len(entries)*2)
	for i, entry := range entries {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, categoryMarker(entry.Category)+entry.Content)
	}
	return lines
}
