package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ministrylog/internal/timeutil"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	timeutil.DateLayout,
	"2006.01.02",
	"2006.1.2",
	"2006. 1. 2.",
	"2006. 1. 2",
	"2006/01/02",
	"2006/1/2",
	"01-02-06",
}

// parseDate accepts the common spreadsheet renderings of a calendar date,
// including a raw Excel serial day number.
func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return timeutil.Date(parsed), nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return timeutil.Date(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", raw)
}

// normalizeTimeSlot renders "9:00", "09:00:00" or "9시" as "09:00".
func normalizeTimeSlot(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("missing time slot")
	}
	if hour, ok := strings.CutSuffix(value, "시"); ok {
		value = strings.TrimSpace(hour) + ":00"
	}
	for _, layout := range []string{"15:04", "15:04:05", "3:04", "3:04 PM"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unsupported time slot: %q", raw)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "o", "x", "v", "중요", "★":
		return true
	default:
		return false
	}
}
