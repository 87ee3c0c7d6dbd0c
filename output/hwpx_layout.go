package output

import (
	"ministrylog/hwpx"
	"ministrylog/internal/timegrid"
	"ministrylog/ministry"
)

// Cell addresses of the weekly HWPX template. They were read off the
// template's hp:cellAddr attributes and must be kept in sync with the asset;
// ValidateHWPXTemplate fails when one of them is missing.
var (
	hwpxMonthWeekCell  = hwpx.Address{Row: 0, Col: 0}
	hwpxDateRangeCell  = hwpx.Address{Row: 0, Col: 2}
	hwpxDepartmentCell = hwpx.Address{Row: 0, Col: 8}
	hwpxNameCell       = hwpx.Address{Row: 0, Col: 12}

	hwpxNoteCell = hwpx.Address{Row: 19, Col: 1}
	hwpxDawnCell = hwpx.Address{Row: 20, Col: 9}

	// hwpxStyleFallback provides the grid paragraph style when the legend
	// paragraph cannot be found.
	hwpxStyleFallback = hwpx.Address{Row: 3, Col: 1}
)

const (
	hwpxStyleLegendText = "심방"

	hwpxDateRow      = 2
	hwpxTotalsColumn = 10
	hwpxPlanColumn   = 11
)

// hwpxDayColumns maps day offsets to template columns. The template has no
// Monday column.
var hwpxDayColumns = []struct {
	day int
	col int
}{
	{day: 0, col: 1},
	{day: 2, col: 3},
	{day: 3, col: 4},
	{day: 4, col: 5},
	{day: 5, col: 6},
	{day: 6, col: 7},
}

// hwpxSlotRows maps the slots the template prints to their rows. Slots
// outside 09:00-20:00 have no row in the template.
var hwpxSlotRows = []struct {
	slot string
	row  int
}{
	{slot: "09:00", row: 3},
	{slot: "10:00", row: 4},
	{slot: "11:00", row: 5},
	{slot: "11:40", row: 6},
	{slot: "12:40", row: 7},
	{slot: "14:00", row: 8},
	{slot: "15:00", row: 9},
	{slot: "16:00", row: 10},
	{slot: "17:00", row: 11},
	{slot: "18:00", row: 12},
	{slot: "19:00", row: 13},
	{slot: "20:00", row: 14},
}

var hwpxStatsRows = []struct {
	kind ministry.VisitKind
	row  int
}{
	{kind: ministry.VisitInPerson, row: 16},
	{kind: ministry.VisitCafe, row: 17},
	{kind: ministry.VisitPhone, row: 18},
}

// hwpxPlanRows lists the plan cells of the template's plan column. Monday
// has no plan cell.
var hwpxPlanRows = []struct {
	slot ministry.PlanSlot
	row  int
}{
	{slot: ministry.PlanSunday, row: 3},
	{slot: ministry.PlanTuesday, row: 4},
	{slot: ministry.PlanWednesday, row: 5},
	{slot: ministry.PlanThursday, row: 6},
	{slot: ministry.PlanFriday, row: 7},
	{slot: ministry.PlanSaturday, row: 8},
	{slot: ministry.PlanRemarks, row: 9},
}

// HWPXAddresses returns every template cell the exporter writes or reads,
// in no particular order.
func HWPXAddresses() []hwpx.Address {
	seen := make(map[hwpx.Address]bool)
	var out []hwpx.Address
	add := func(addr hwpx.Address) {
		if !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}

	add(hwpxMonthWeekCell)
	add(hwpxDateRangeCell)
	add(hwpxDepartmentCell)
	add(hwpxNameCell)
	for _, day := range hwpxDayColumns {
		add(hwpx.Address{Row: hwpxDateRow, Col: day.col})
		for _, slot := range hwpxSlotRows {
			if timegrid.IsMeal(slot.slot) {
				continue
			}
			add(hwpx.Address{Row: slot.row, Col: day.col})
		}
		for _, stat := range hwpxStatsRows {
			add(hwpx.Address{Row: stat.row, Col: day.col})
		}
	}
	for _, stat := range hwpxStatsRows {
		add(hwpx.Address{Row: stat.row, Col: hwpxTotalsColumn})
	}
	for _, plan := range hwpxPlanRows {
		add(hwpx.Address{Row: plan.row, Col: hwpxPlanColumn})
	}
	add(hwpxNoteCell)
	add(hwpxDawnCell)
	add(hwpxStyleFallback)
	return out
}
