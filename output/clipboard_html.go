package output

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"ministrylog/internal/logger"
	"ministrylog/internal/observability"
	"ministrylog/internal/timegrid"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"
)

//go:embed templates/clipboard.html
var clipboardTemplates embed.FS

var clipboardTemplate = template.Must(template.ParseFS(clipboardTemplates, "templates/clipboard.html"))

// The paste parser of the target word processor corrupts tables that use
// rowspan or colspan, so every row carries exactly clipboardColumns cells.
const clipboardColumns = 9

// mealLabelDay is the day column that carries the meal label in a meal row.
const mealLabelDay = 3

// remarksSlotIndex is the slot row whose plan cell shows the Remarks text.
const remarksSlotIndex = 14

const (
	cssTable  template.CSS = "border-collapse: collapse; width: 100%; font-family: 'Malgun Gothic', '맑은 고딕', sans-serif; font-size: 8pt; line-height: 1.2;"
	cssHeader template.CSS = "background-color: #BDD7EE; font-weight: bold; text-align: center;"
	cssSlot   template.CSS = "height: 35px;"
	cssBorder              = "border: 0.5pt solid black;"

	cssTimeCell  template.CSS = cssBorder + " background-color: #F2F2F2; text-align: center; width: 60px;"
	cssHeadCell  template.CSS = cssBorder
	cssDataCell  template.CSS = cssBorder + " padding: 4px; vertical-align: top; text-align: left;"
	cssMealCell  template.CSS = cssBorder + " background-color: #F2F2F2; text-align: center;"
	cssPlanCell  template.CSS = cssBorder + " padding: 4px; vertical-align: top;"
	cssStatLabel template.CSS = cssBorder + " background-color: #FFE0E0; text-align: center;"
	cssStatCell  template.CSS = cssBorder + " text-align: center;"
	cssStatTotal template.CSS = cssBorder + " background-color: #FFF9C4; font-weight: bold; text-align: center;"
	cssDawnCell  template.CSS = cssBorder + " background-color: #EEEEEE; text-align: center;"
)

// Clipboard receives a payload under a MIME type.
type Clipboard interface {
	Write(ctx context.Context, mimeType string, data []byte) error
}

// ClipboardHTML renders the week as a flat HTML table for pasting into the
// legacy word processor.
type ClipboardHTML struct {
	Log *logger.Logger
}

func (w *ClipboardHTML) Format() string {
	return "html"
}

type htmlCell struct {
	Style template.CSS
	Label string
	Lines []string
}

type htmlRow struct {
	Style template.CSS
	Cells []htmlCell
}

type htmlTable struct {
	TableStyle template.CSS
	Rows       []htmlRow
}

// Export renders the payload as an artifact; the sink receives it when given.
func (w *ClipboardHTML) Export(ctx context.Context, input WeekInput, sink Sink) (artifact *Artifact, err error) {
	started := time.Now()
	defer func() { observability.RecordExport(w.Format(), started, err) }()

	data, err := w.Render(input)
	if err != nil {
		logger.OrNop(w.Log).Error("render clipboard table failed", "week", timeutil.FormatDate(input.Window.Start), "error", err)
		return nil, err
	}
	return deliver(ctx, sink, &Artifact{
		Name:     ClipboardFileName(input.Window, input.Profile.Name),
		MIMEType: MIMETypeHTML,
		Data:     data,
	})
}

// Copy renders the payload and writes it to clip under text/html. Every
// failure is logged and reported as false.
func (w *ClipboardHTML) Copy(ctx context.Context, clip Clipboard, input WeekInput) bool {
	log := logger.OrNop(w.Log)
	if clip == nil {
		log.Warn("clipboard copy skipped", "reason", "no clipboard available")
		observability.RecordClipboardWrite(false)
		return false
	}

	data, err := w.Render(input)
	if err != nil {
		log.Warn("clipboard copy failed", "stage", "render", "error", err)
		observability.RecordClipboardWrite(false)
		return false
	}
	if err := clip.Write(ctx, MIMETypeHTML, data); err != nil {
		log.Warn("clipboard copy failed", "stage", "write", "error", err)
		observability.RecordClipboardWrite(false)
		return false
	}
	observability.RecordClipboardWrite(true)
	return true
}

// CopyToClipboard writes the week's table to clip and reports success.
func CopyToClipboard(ctx context.Context, clip Clipboard, input WeekInput) bool {
	return (&ClipboardHTML{}).Copy(ctx, clip, input)
}

// Render returns the HTML table.
func (w *ClipboardHTML) Render(input WeekInput) ([]byte, error) {
	summary := BuildWeeklySummary(input.Window, input.Entries)
	observability.RecordDroppedEntries(summary.Skipped)
	logger.OrNop(w.Log).Debug("aggregated week for clipboard",
		"week", timeutil.FormatDate(input.Window.Start),
		"placed", summary.Placed,
		"skipped", summary.Skipped,
	)

	table := htmlTable{TableStyle: cssTable}
	table.Rows = append(table.Rows, clipboardHeaderRow(input.Window))
	for idx, slot := range timegrid.Slots() {
		table.Rows = append(table.Rows, clipboardSlotRow(idx, slot, input.Plan, summary))
	}
	table.Rows = append(table.Rows, clipboardStatsRows(summary)...)
	table.Rows = append(table.Rows, clipboardFooterRow(input.Note))

	for i, row := range table.Rows {
		if len(row.Cells) != clipboardColumns {
			return nil, fmt.Errorf("clipboard row %d has %d cells, want %d", i, len(row.Cells), clipboardColumns)
		}
	}

	var buf bytes.Buffer
	if err := clipboardTemplate.Execute(&buf, table); err != nil {
		return nil, fmt.Errorf("execute clipboard template: %w", err)
	}
	return buf.Bytes(), nil
}

func clipboardHeaderRow(window timeutil.WeekWindow) htmlRow {
	row := htmlRow{Style: cssHeader}
	row.Cells = append(row.Cells, htmlCell{Style: cssTimeCell, Lines: []string{"구분"}})
	for _, date := range window.Days() {
		row.Cells = append(row.Cells, htmlCell{Style: cssHeadCell, Lines: []string{dayHeaderLabel(date)}})
	}
	row.Cells = append(row.Cells, htmlCell{Style: cssHeadCell, Lines: []string{"다음주간계획"}})
	return row
}

func clipboardSlotRow(idx int, slot string, plan *ministry.WeeklyPlan, summary WeeklySummary) htmlRow {
	row := htmlRow{Style: cssSlot}
	row.Cells = append(row.Cells, htmlCell{Style: cssTimeCell, Lines: []string{slot}})

	for day := 0; day < 7; day++ {
		if timegrid.IsMeal(slot) {
			cell := htmlCell{Style: cssMealCell}
			if day == mealLabelDay {
				cell.Lines = []string{timegrid.MealLabel(slot)}
			}
			row.Cells = append(row.Cells, cell)
			continue
		}
		row.Cells = append(row.Cells, htmlCell{
			Style: cssDataCell,
			Lines: splitLines(entryLines(summary.Cell(slot, day))),
		})
	}

	planCell := htmlCell{Style: cssPlanCell}
	if planSlot, ok := clipboardPlanSlot(idx); ok {
		planCell.Label = "[" + planSlot.Label() + "]"
		planCell.Lines = splitLines([]string{plan.Text(planSlot)})
	}
	row.Cells = append(row.Cells, planCell)
	return row
}

// clipboardPlanSlot places weekday plans on even slot rows and Remarks on
// remarksSlotIndex.
func clipboardPlanSlot(idx int) (ministry.PlanSlot, bool) {
	switch {
	case idx == remarksSlotIndex:
		return ministry.PlanRemarks, true
	case idx%2 == 0 && idx/2 < 7:
		return ministry.PlanSlotForDay(idx / 2), true
	default:
		return 0, false
	}
}

func clipboardStatsRows(summary WeeklySummary) []htmlRow {
	kinds := ministry.VisitKinds()
	rows := make([]htmlRow, 0, len(kinds))
	for i, kind := range kinds {
		label := htmlCell{Style: cssStatLabel}
		if i == 0 {
			label.Lines = []string{"심방기록"}
		}
		row := htmlRow{Cells: []htmlCell{label}}
		for day := 0; day < 7; day++ {
			row.Cells = append(row.Cells, htmlCell{
				Style: cssStatCell,
				Lines: []string{fmt.Sprintf("%s: %d회", kind, summary.Visits.Day(day, kind))},
			})
		}
		row.Cells = append(row.Cells, htmlCell{
			Style: cssStatTotal,
			Lines: []string{fmt.Sprintf("%s심방: 총 %d회", kind, summary.Visits.Total(kind))},
		})
		rows = append(rows, row)
	}
	return rows
}

func clipboardFooterRow(note *ministry.WeeklyNote) htmlRow {
	row := htmlRow{Cells: []htmlCell{{Style: cssStatLabel, Lines: []string{"특이사항"}}}}
	row.Cells = append(row.Cells, htmlCell{Style: cssDataCell, Lines: splitLines([]string{note.Note()})})
	for day := 1; day < 7; day++ {
		row.Cells = append(row.Cells, htmlCell{Style: cssDataCell})
	}

	attended := note.AttendedDays()
	row.Cells = append(row.Cells, htmlCell{
		Style: cssDawnCell,
		Label: "새벽예배",
		Lines: []string{strings.Join(attended, ","), fmt.Sprintf("(%d회 참석)", len(attended))},
	})
	return row
}

// splitLines breaks multi-line text into separate lines and drops a lone
// empty line so empty cells render as <td></td>.
func splitLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		out = append(out, strings.Split(line, "\n")...)
	}
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}
