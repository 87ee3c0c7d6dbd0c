package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format used across the module.
const DateLayout = "2006-01-02"

const daysPerWeek = 7

// Date truncates a timestamp to its calendar day, anchored at UTC midnight so
// day arithmetic is free of DST and zone offsets.
func Date(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", raw)
	}
	return parsed, nil
}

func FormatDate(value time.Time) string {
	return value.Format(DateLayout)
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekWindow is the Sunday-to-Saturday span a report covers.
type WeekWindow struct {
	Start time.Time
}

// WeekOf returns the window whose Sunday is on or before the given date.
// Day 0 is always Sunday, independent of locale.
func WeekOf(value time.Time) WeekWindow {
	day := Date(value)
	return WeekWindow{Start: day.AddDate(0, 0, -int(day.Weekday()))}
}

// End returns the Saturday of the window.
func (w WeekWindow) End() time.Time {
	return w.Start.AddDate(0, 0, daysPerWeek-1)
}

// Day returns the date at the given offset from Sunday.
func (w WeekWindow) Day(offset int) time.Time {
	return w.Start.AddDate(0, 0, offset)
}

// Days returns the seven dates of the window in order.
func (w WeekWindow) Days() []time.Time {
	days := make([]time.Time, daysPerWeek)
	for i := range days {
		days[i] = w.Day(i)
	}
	return days
}

// DayOffset returns floor((date - start) / 1 day) and whether it falls in
// [0, 6]. Entries outside the window are never wrapped.
func (w WeekWindow) DayOffset(value time.Time) (int, bool) {
	diff := Date(value).Sub(Date(w.Start))
	days := int(diff / (24 * time.Hour))
	if diff < 0 && diff%(24*time.Hour) != 0 {
		days--
	}
	if days < 0 || days >= daysPerWeek {
		return days, false
	}
	return days, true
}

func (w WeekWindow) Contains(value time.Time) bool {
	_, ok := w.DayOffset(value)
	return ok
}

// WeekOfMonth numbers the Sunday-start week containing the date within its
// month; the week holding the 1st is week 1.
func WeekOfMonth(value time.Time) int {
	day := Date(value)
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return (day.Day()+int(first.Weekday())-1)/daysPerWeek + 1
}

// WeekOfMonthByDay counts whole seven-day blocks from the 1st: days 1-7 are
// week 1, days 8-14 week 2, and so on. The workbook numbers weeks this way.
func WeekOfMonthByDay(value time.Time) int {
	return (Date(value).Day() + daysPerWeek - 1) / daysPerWeek
}
