package ministry

import (
	"fmt"
	"strings"
	"time"
)

// PlanSlot indexes a weekly plan: 0..6 are Sunday..Saturday, 7 is Remarks.
type PlanSlot int

const (
	PlanSunday PlanSlot = iota
	PlanMonday
	PlanTuesday
	PlanWednesday
	PlanThursday
	PlanFriday
	PlanSaturday
	PlanRemarks
)

// PlanSlotCount is the number of entries in a weekly plan.
const PlanSlotCount = 8

var planLabels = [PlanSlotCount]string{"주일", "월", "화", "수", "목", "금", "토", "비고"}

// Label returns the Korean column label of the plan slot.
func (p PlanSlot) Label() string {
	if p < 0 || int(p) >= PlanSlotCount {
		return ""
	}
	return planLabels[p]
}

// PlanSlotForDay maps a day offset (0 = Sunday) to its plan slot.
func PlanSlotForDay(day int) PlanSlot {
	return PlanSlot(day)
}

// ParsePlanSlot accepts a numeric index, a Korean label or an English day name.
func ParsePlanSlot(raw string) (PlanSlot, error) {
	value := strings.TrimSpace(raw)
	for i, label := range planLabels {
		if value == label || value == fmt.Sprint(i) {
			return PlanSlot(i), nil
		}
	}
	switch strings.ToLower(value) {
	case "sun", "sunday":
		return PlanSunday, nil
	case "mon", "monday":
		return PlanMonday, nil
	case "tue", "tuesday":
		return PlanTuesday, nil
	case "wed", "wednesday":
		return PlanWednesday, nil
	case "thu", "thursday":
		return PlanThursday, nil
	case "fri", "friday":
		return PlanFriday, nil
	case "sat", "saturday":
		return PlanSaturday, nil
	case "remarks", "note", "notes":
		return PlanRemarks, nil
	}
	return 0, fmt.Errorf("unknown plan slot %q", raw)
}

// WeeklyPlan holds the "next week plan" column for one week.
type WeeklyPlan struct {
	WeekStart time.Time
	Plans     map[PlanSlot]string
}

// Text returns the plan text for a slot, or "" for a nil plan.
func (p *WeeklyPlan) Text(slot PlanSlot) string {
	if p == nil || p.Plans == nil {
		return ""
	}
	return p.Plans[slot]
}

// DawnDays are the weekdays on which the early-morning service is tracked.
var dawnDays = []string{"월", "화", "수", "목", "금"}

// DawnDayLabels returns the attendance weekday labels in Mon..Fri order.
func DawnDayLabels() []string {
	return append([]string(nil), dawnDays...)
}

// WeeklyNote holds the special note and early-morning attendance of one week.
type WeeklyNote struct {
	WeekStart      time.Time
	SpecialNote    string
	DawnPrayerDays []string
}

// Note returns the special note, or "" for a nil note.
func (n *WeeklyNote) Note() string {
	if n == nil {
		return ""
	}
	return n.SpecialNote
}

// AttendedDays returns the attended weekday labels in Mon..Fri order.
// Unknown labels are ignored.
func (n *WeeklyNote) AttendedDays() []string {
	if n == nil {
		return nil
	}
	attended := make(map[string]bool, len(n.DawnPrayerDays))
	for _, day := range n.DawnPrayerDays {
		if label, ok := NormalizeDawnDay(day); ok {
			attended[label] = true
		}
	}
	out := make([]string, 0, len(attended))
	for _, label := range dawnDays {
		if attended[label] {
			out = append(out, label)
		}
	}
	return out
}

// NormalizeDawnDay maps Korean or English weekday names onto the Korean label.
func NormalizeDawnDay(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	for _, label := range dawnDays {
		if value == label {
			return label, true
		}
	}
	switch strings.ToLower(value) {
	case "mon", "monday":
		return "월", true
	case "tue", "tuesday":
		return "화", true
	case "wed", "wednesday":
		return "수", true
	case "thu", "thursday":
		return "목", true
	case "fri", "friday":
		return "금", true
	}
	return "", false
}
