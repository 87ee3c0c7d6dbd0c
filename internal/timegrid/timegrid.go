// Package timegrid defines the canonical time-of-day rows shared by every
// weekly report layout.
package timegrid

const (
	LunchSlot  = "11:40"
	DinnerSlot = "17:00"

	LunchLabel  = "점 심 식 사"
	DinnerLabel = "저 녁 식 사"
)

var slots = []string{
	"05:00", "06:00", "07:00", "08:00", "09:00", "10:00", "11:00",
	LunchSlot,
	"12:40", "14:00", "15:00", "16:00",
	DinnerSlot,
	"18:00",
	"19:00", "20:00", "21:00", "22:00", "23:00",
}

var slotIndex = func() map[string]int {
	index := make(map[string]int, len(slots))
	for i, slot := range slots {
		index[slot] = i
	}
	return index
}()

// Slots returns the ordered slot labels. Row order in every report follows it.
func Slots() []string {
	return append([]string(nil), slots...)
}

func Len() int {
	return len(slots)
}

// Index returns the row position of a slot.
func Index(slot string) (int, bool) {
	i, ok := slotIndex[slot]
	return i, ok
}

func Contains(slot string) bool {
	_, ok := slotIndex[slot]
	return ok
}

// IsMeal reports whether the slot renders as one merged meal label.
func IsMeal(slot string) bool {
	return slot == LunchSlot || slot == DinnerSlot
}

// MealLabel returns the merged label text for a meal slot, or "".
func MealLabel(slot string) string {
	switch slot {
	case LunchSlot:
		return LunchLabel
	case DinnerSlot:
		return DinnerLabel
	default:
		return ""
	}
}
