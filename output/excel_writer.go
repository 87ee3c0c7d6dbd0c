package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ministrylog/internal/logger"
	"ministrylog/internal/observability"
	"ministrylog/internal/timegrid"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"

	"github.com/xuri/excelize/v2"
)

const (
	workbookSheet = "주간사역일지"
	reportTitle   = "교역자 주간 사역일지"
	legendText    = " ■ : 심방   ● : 업무"
	fontFamily    = "Malgun Gothic"

	colTime = 1
	colPlan = 9

	rowTitle     = 1
	rowLegend    = 2
	rowInfo      = 3
	rowHeader    = 4
	firstSlotRow = 5
)

var weekdayShort = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// planGroup merges consecutive slot rows of the plan column under one label.
type planGroup struct {
	slot      ministry.PlanSlot
	firstSlot int
	lastSlot  int
}

// planGroups pairs each weekday with two slot rows; Remarks takes the rest.
var planGroups = []planGroup{
	{slot: ministry.PlanSunday, firstSlot: 0, lastSlot: 1},
	{slot: ministry.PlanMonday, firstSlot: 2, lastSlot: 3},
	{slot: ministry.PlanTuesday, firstSlot: 4, lastSlot: 5},
	{slot: ministry.PlanWednesday, firstSlot: 6, lastSlot: 7},
	{slot: ministry.PlanThursday, firstSlot: 8, lastSlot: 9},
	{slot: ministry.PlanFriday, firstSlot: 10, lastSlot: 11},
	{slot: ministry.PlanSaturday, firstSlot: 12, lastSlot: 13},
	{slot: ministry.PlanRemarks, firstSlot: 14, lastSlot: 18},
}

// ExcelWriter renders the fixed-layout weekly workbook.
type ExcelWriter struct {
	Log *logger.Logger
}

func (w *ExcelWriter) Format() string {
	return "xlsx"
}

// Export renders the workbook and, when sink is non-nil, delivers it.
// Serialisation errors are returned and nothing is delivered.
func (w *ExcelWriter) Export(ctx context.Context, input WeekInput, sink Sink) (artifact *Artifact, err error) {
	started := time.Now()
	defer func() { observability.RecordExport(w.Format(), started, err) }()

	data, err := w.Render(input)
	if err != nil {
		logger.OrNop(w.Log).Error("render workbook failed", "week", timeutil.FormatDate(input.Window.Start), "error", err)
		return nil, err
	}
	return deliver(ctx, sink, &Artifact{
		Name:     SpreadsheetFileName(input.Window, input.Profile.Name),
		MIMEType: MIMETypeXLSX,
		Data:     data,
	})
}

// Render returns the workbook bytes without naming or delivering them.
func (w *ExcelWriter) Render(input WeekInput) ([]byte, error) {
	summary := BuildWeeklySummary(input.Window, input.Entries)
	observability.RecordDroppedEntries(summary.Skipped)
	logger.OrNop(w.Log).Debug("aggregated week for workbook",
		"week", timeutil.FormatDate(input.Window.Start),
		"placed", summary.Placed,
		"skipped", summary.Skipped,
	)

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), workbookSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	sheet := &sheetWriter{file: file, name: workbookSheet}
	styles, err := newWorkbookStyles(file)
	if err != nil {
		return nil, err
	}
	sheet.styles = styles

	steps := []func(WeekInput, WeeklySummary){
		sheet.writeColumns,
		sheet.writeTitle,
		sheet.writeInfo,
		sheet.writeHeader,
		sheet.writeGrid,
		sheet.writePlans,
		sheet.writeStats,
		sheet.writeFooter,
	}
	for _, step := range steps {
		step(input, summary)
		if sheet.err != nil {
			return nil, sheet.err
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	data, err := canonicalZip(buffer.Bytes())
	if err != nil {
		return nil, fmt.Errorf("normalise workbook: %w", err)
	}
	return data, nil
}

type workbookStyles struct {
	title, church, legend, infoLeft, infoBox int
	header, timeLabel, dataCell, meal        int
	plan, statsLabel, statsDay, statsTotal   int
	noteBody, dawn                           int
}

func newWorkbookStyles(file *excelize.File) (workbookStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	font := func(size float64, bold bool, color string) *excelize.Font {
		return &excelize.Font{Family: fontFamily, Size: size, Bold: bold, Color: color}
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	leftTop := &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	leftMiddle := &excelize.Alignment{Horizontal: "left", Vertical: "center"}

	var styles workbookStyles
	defs := []struct {
		target *int
		style  excelize.Style
	}{
		{&styles.title, excelize.Style{Font: font(20, true, ""), Alignment: center}},
		{&styles.church, excelize.Style{Font: font(12, true, "1B4F72"), Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"}}},
		{&styles.legend, excelize.Style{Font: font(10, false, ""), Alignment: leftMiddle}},
		{&styles.infoLeft, excelize.Style{Font: font(10, true, ""), Alignment: leftMiddle}},
		{&styles.infoBox, excelize.Style{Font: font(10, false, ""), Alignment: center, Border: border}},
		{&styles.header, excelize.Style{Font: font(10, true, ""), Alignment: center, Border: border, Fill: fill("BDD7EE")}},
		{&styles.timeLabel, excelize.Style{Font: font(9, false, ""), Alignment: center, Border: border, Fill: fill("F2F2F2")}},
		{&styles.dataCell, excelize.Style{Font: font(10, false, ""), Alignment: leftTop, Border: border}},
		{&styles.meal, excelize.Style{Font: font(10, false, ""), Alignment: center, Border: border, Fill: fill("F2F2F2")}},
		{&styles.plan, excelize.Style{Font: font(10, false, ""), Alignment: leftTop, Border: border}},
		{&styles.statsLabel, excelize.Style{Font: font(10, false, ""), Alignment: center, Border: border, Fill: fill("FFE0E0")}},
		{&styles.statsDay, excelize.Style{Font: font(9, false, ""), Alignment: center, Border: border}},
		{&styles.statsTotal, excelize.Style{Font: font(10, true, ""), Alignment: center, Border: border, Fill: fill("FFF9C4")}},
		{&styles.noteBody, excelize.Style{Font: font(10, false, ""), Alignment: leftTop, Border: border}},
		{&styles.dawn, excelize.Style{Font: font(10, false, ""), Alignment: center, Border: border, Fill: fill("EEEEEE")}},
	}

	for _, def := range defs {
		style := def.style
		id, err := file.NewStyle(&style)
		if err != nil {
			return workbookStyles{}, fmt.Errorf("create workbook style: %w", err)
		}
		*def.target = id
	}
	return styles, nil
}

// sheetWriter keeps the first error so layout steps read as a flat sequence.
type sheetWriter struct {
	file   *excelize.File
	name   string
	styles workbookStyles
	err    error
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (s *sheetWriter) fail(err error, format string, args ...any) {
	if err != nil && s.err == nil {
		s.err = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
}

func (s *sheetWriter) value(col, row int, value any, style int) {
	cell := cellName(col, row)
	s.fail(s.file.SetCellValue(s.name, cell, value), "set cell %s", cell)
	s.style(col, row, col, row, style)
}

func (s *sheetWriter) rich(col, row int, runs []excelize.RichTextRun, style int) {
	cell := cellName(col, row)
	s.fail(s.file.SetCellRichText(s.name, cell, runs), "set rich text %s", cell)
	s.style(col, row, col, row, style)
}

func (s *sheetWriter) style(col1, row1, col2, row2, style int) {
	from, to := cellName(col1, row1), cellName(col2, row2)
	s.fail(s.file.SetCellStyle(s.name, from, to, style), "style %s:%s", from, to)
}

func (s *sheetWriter) merge(col1, row1, col2, row2 int) {
	from, to := cellName(col1, row1), cellName(col2, row2)
	s.fail(s.file.MergeCell(s.name, from, to), "merge %s:%s", from, to)
}

func (s *sheetWriter) height(row int, height float64) {
	s.fail(s.file.SetRowHeight(s.name, row, height), "row height %d", row)
}

func dayColumn(day int) int {
	return 2 + day
}

func (s *sheetWriter) writeColumns(WeekInput, WeeklySummary) {
	s.fail(s.file.SetColWidth(s.name, "A", "A", 8), "column width A")
	s.fail(s.file.SetColWidth(s.name, "B", "I", 14), "column width B:I")
}

func (s *sheetWriter) writeTitle(input WeekInput, _ WeeklySummary) {
	s.height(rowTitle, 30)
	s.merge(1, rowTitle, dayColumn(6), rowTitle)
	s.value(1, rowTitle, reportTitle, s.styles.title)
	s.value(colPlan, rowTitle, input.Profile.Church(), s.styles.church)

	s.height(rowLegend, 20)
	s.merge(1, rowLegend, colPlan, rowLegend)
	s.value(1, rowLegend, legendText, s.styles.legend)
}

func (s *sheetWriter) writeInfo(input WeekInput, _ WeeklySummary) {
	s.height(rowInfo, 25)
	start, end := input.Window.Start, input.Window.End()

	endLabel := fmt.Sprintf("%d일(%s)", end.Day(), weekdayShort[end.Weekday()])
	if end.Month() != start.Month() {
		endLabel = fmt.Sprintf("%d월 %s", int(end.Month()), endLabel)
	}
	info := fmt.Sprintf("%d월 %d주   %d년 %d월 %d일(%s) ~ %s",
		int(start.Month()), timeutil.WeekOfMonthByDay(start),
		start.Year(), int(start.Month()), start.Day(), weekdayShort[start.Weekday()],
		endLabel,
	)
	s.merge(1, rowInfo, dayColumn(4), rowInfo)
	s.value(1, rowInfo, info, s.styles.infoLeft)

	s.merge(dayColumn(5), rowInfo, dayColumn(6), rowInfo)
	s.value(dayColumn(5), rowInfo, "부서: "+input.Profile.Department, s.styles.infoBox)
	s.style(dayColumn(5), rowInfo, dayColumn(6), rowInfo, s.styles.infoBox)
	s.value(colPlan, rowInfo, "사역자: "+input.Profile.Name, s.styles.infoBox)
}

func (s *sheetWriter) writeHeader(input WeekInput, _ WeeklySummary) {
	s.height(rowHeader, 25)
	s.value(colTime, rowHeader, "구분", s.styles.header)
	for day, date := range input.Window.Days() {
		s.value(dayColumn(day), rowHeader, dayHeaderLabel(date), s.styles.header)
	}
	s.value(colPlan, rowHeader, "다음주간계획", s.styles.header)
}

func dayHeaderLabel(date time.Time) string {
	return fmt.Sprintf("%d.%d(%s)", int(date.Month()), date.Day(), weekdayShort[date.Weekday()])
}

func (s *sheetWriter) writeGrid(_ WeekInput, summary WeeklySummary) {
	for idx, slot := range timegrid.Slots() {
		row := firstSlotRow + idx
		s.height(row, 30)
		s.value(colTime, row, slot, s.styles.timeLabel)

		if timegrid.IsMeal(slot) {
			s.merge(dayColumn(0), row, dayColumn(6), row)
			s.value(dayColumn(0), row, timegrid.MealLabel(slot), s.styles.meal)
			s.style(dayColumn(0), row, dayColumn(6), row, s.styles.meal)
			continue
		}

		s.style(dayColumn(0), row, dayColumn(6), row, s.styles.dataCell)
		for day := 0; day < 7; day++ {
			entries := summary.Cell(slot, day)
			if len(entries) == 0 {
				continue
			}
			s.value(dayColumn(day), row, strings.Join(entryLines(entries), "\n"), s.styles.dataCell)
		}
	}
}

func (s *sheetWriter) writePlans(input WeekInput, _ WeeklySummary) {
	base := &excelize.Font{Family: fontFamily, Size: 10}
	bold := &excelize.Font{Family: fontFamily, Size: 10, Bold: true}

	for _, group := range planGroups {
		first, last := firstSlotRow+group.firstSlot, firstSlotRow+group.lastSlot
		s.merge(colPlan, first, colPlan, last)

		runs := []excelize.RichTextRun{{Text: group.slot.Label() + "\n", Font: bold}}
		if text := input.Plan.Text(group.slot); text != "" {
			runs = append(runs, excelize.RichTextRun{Text: text, Font: base})
		}
		s.rich(colPlan, first, runs, s.styles.plan)
		s.style(colPlan, first, colPlan, last, s.styles.plan)
	}
}

func statsStartRow() int {
	return firstSlotRow + timegrid.Len()
}

func (s *sheetWriter) writeStats(_ WeekInput, summary WeeklySummary) {
	start := statsStartRow()
	kinds := ministry.VisitKinds()

	s.merge(colTime, start, colTime, start+len(kinds)-1)
	s.value(colTime, start, "심방\n기록", s.styles.statsLabel)
	s.style(colTime, start, colTime, start+len(kinds)-1, s.styles.statsLabel)

	for i, kind := range kinds {
		row := start + i
		s.height(row, 20)
		for day := 0; day < 7; day++ {
			s.value(dayColumn(day), row, fmt.Sprintf("%s: %d회", kind, summary.Visits.Day(day, kind)), s.styles.statsDay)
		}
		s.value(colPlan, row, fmt.Sprintf("%s심방: 총 %d회", kind, summary.Visits.Total(kind)), s.styles.statsTotal)
	}
}

func (s *sheetWriter) writeFooter(input WeekInput, _ WeeklySummary) {
	row := statsStartRow() + len(ministry.VisitKinds())

	s.merge(colTime, row, colTime, row+1)
	s.value(colTime, row, "특이\n사항", s.styles.statsLabel)
	s.style(colTime, row, colTime, row+1, s.styles.statsLabel)

	s.merge(dayColumn(0), row, dayColumn(6), row+1)
	s.value(dayColumn(0), row, input.Note.Note(), s.styles.noteBody)
	s.style(dayColumn(0), row, dayColumn(6), row+1, s.styles.noteBody)

	attended := input.Note.AttendedDays()
	base := &excelize.Font{Family: fontFamily, Size: 10}
	s.merge(colPlan, row, colPlan, row+1)
	s.rich(colPlan, row, []excelize.RichTextRun{
		{Text: "새벽예배\n", Font: &excelize.Font{Family: fontFamily, Size: 10, Bold: true}},
		{Text: strings.Join(attended, ",") + "\n", Font: base},
		{Text: fmt.Sprintf("(%d회 참석)", len(attended)), Font: base},
	}, s.styles.dawn)
	s.style(colPlan, row, colPlan, row+1, s.styles.dawn)
}
