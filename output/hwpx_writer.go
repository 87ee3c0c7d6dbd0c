package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ministrylog/hwpx"
	"ministrylog/internal/logger"
	"ministrylog/internal/observability"
	"ministrylog/internal/timegrid"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"

	"github.com/beevik/etree"
)

// HWPXWriter patches the weekly report into a prebuilt HWPX template.
type HWPXWriter struct {
	Log      *logger.Logger
	Template hwpx.TemplateSource
}

func (w *HWPXWriter) Format() string {
	return "hwpx"
}

// Export loads the template, patches it and delivers the result. Template
// problems wrap the hwpx sentinel errors so callers can tell them apart from
// data problems.
func (w *HWPXWriter) Export(ctx context.Context, input WeekInput, sink Sink) (artifact *Artifact, err error) {
	started := time.Now()
	defer func() { observability.RecordExport(w.Format(), started, err) }()

	log := logger.OrNop(w.Log)
	data, err := w.Render(ctx, input)
	if err != nil {
		if hwpx.IsTemplateError(err) {
			log.Error("hwpx template unusable", "template", w.templateName(), "error", err)
		} else {
			log.Error("render hwpx failed", "week", timeutil.FormatDate(input.Window.Start), "error", err)
		}
		return nil, err
	}
	return deliver(ctx, sink, &Artifact{
		Name:     HWPXFileName(input.Window, input.Profile.Name),
		MIMEType: MIMETypeHWPX,
		Data:     data,
	})
}

func (w *HWPXWriter) templateName() string {
	if w.Template == nil {
		return ""
	}
	return w.Template.String()
}

// Render returns the patched template bytes.
func (w *HWPXWriter) Render(ctx context.Context, input WeekInput) ([]byte, error) {
	if w.Template == nil {
		return nil, fmt.Errorf("%w: no template source configured", hwpx.ErrTemplateUnavailable)
	}
	raw, err := w.Template.Load(ctx)
	if err != nil {
		return nil, err
	}
	pkg, err := hwpx.Open(raw)
	if err != nil {
		return nil, err
	}
	if err := ValidateHWPXTemplate(pkg); err != nil {
		return nil, err
	}
	if err := w.Patch(pkg, input); err != nil {
		return nil, err
	}
	return pkg.Bytes()
}

// ValidateHWPXTemplate checks that every address the exporter writes exists
// in the template.
func ValidateHWPXTemplate(pkg *hwpx.Package) error {
	var missing []string
	for _, addr := range HWPXAddresses() {
		if _, ok := pkg.Cell(addr.Row, addr.Col); !ok {
			missing = append(missing, addr.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: template lacks %s", hwpx.ErrCellNotFound, strings.Join(missing, " "))
	}
	return nil
}

// gridStyle returns a detached copy of the paragraph every grid cell is
// cloned from: the legend paragraph, or the fallback cell's paragraph.
func gridStyle(pkg *hwpx.Package) *etree.Element {
	if para := pkg.ParagraphContaining(hwpxStyleLegendText); para != nil {
		return para.Copy()
	}
	if para := pkg.FirstParagraph(hwpxStyleFallback.Row, hwpxStyleFallback.Col); para != nil {
		return para.Copy()
	}
	return nil
}

type hwpxPatcher struct {
	pkg *hwpx.Package
	err error
}

func (p *hwpxPatcher) set(addr hwpx.Address, lines []string, style *etree.Element) {
	if p.err != nil {
		return
	}
	p.err = p.pkg.SetCellText(addr.Row, addr.Col, lines, style)
}

// Patch writes the week into an opened template.
func (w *HWPXWriter) Patch(pkg *hwpx.Package, input WeekInput) error {
	summary := BuildWeeklySummary(input.Window, input.Entries)
	observability.RecordDroppedEntries(summary.Skipped)
	logger.OrNop(w.Log).Debug("aggregated week for hwpx",
		"week", timeutil.FormatDate(input.Window.Start),
		"placed", summary.Placed,
		"skipped", summary.Skipped,
	)

	style := gridStyle(pkg)
	p := &hwpxPatcher{pkg: pkg}
	window := input.Window
	start, end := window.Start, window.End()

	p.set(hwpxMonthWeekCell, []string{fmt.Sprintf("%d월 %d주", int(start.Month()), timeutil.WeekOfMonth(start))}, nil)
	p.set(hwpxDateRangeCell, []string{fmt.Sprintf("%d. %d. %d. ~ %d. %d.",
		start.Year(), int(start.Month()), start.Day(), int(end.Month()), end.Day())}, nil)
	p.set(hwpxDepartmentCell, []string{input.Profile.Department}, nil)
	p.set(hwpxNameCell, []string{input.Profile.Name}, nil)

	for _, day := range hwpxDayColumns {
		date := window.Day(day.day)
		label := fmt.Sprintf("%d.%d(%s)", int(date.Month()), date.Day(), ministry.PlanSlotForDay(day.day).Label())
		p.set(hwpx.Address{Row: hwpxDateRow, Col: day.col}, []string{label}, nil)

		for _, slot := range hwpxSlotRows {
			if timegrid.IsMeal(slot.slot) {
				continue
			}
			p.set(hwpx.Address{Row: slot.row, Col: day.col}, hwpxEntryLines(summary.Cell(slot.slot, day.day)), style)
		}
		for _, stat := range hwpxStatsRows {
			text := fmt.Sprintf("%s심방 : %d 회", stat.kind, summary.Visits.Day(day.day, stat.kind))
			p.set(hwpx.Address{Row: stat.row, Col: day.col}, []string{text}, nil)
		}
	}

	for _, stat := range hwpxStatsRows {
		text := fmt.Sprintf("%s심방 : 총 %d 회", stat.kind, summary.Visits.Total(stat.kind))
		p.set(hwpx.Address{Row: stat.row, Col: hwpxTotalsColumn}, []string{text}, nil)
	}

	for _, plan := range hwpxPlanRows {
		p.set(hwpx.Address{Row: plan.row, Col: hwpxPlanColumn}, strings.Split(input.Plan.Text(plan.slot), "\n"), nil)
	}

	p.set(hwpxNoteCell, strings.Split(input.Note.Note(), "\n"), nil)

	var dawn []string
	if attended := input.Note.AttendedDays(); len(attended) > 0 {
		dawn = []string{strings.Join(attended, ". "), fmt.Sprintf("(%d회 참석)", len(attended))}
	}
	p.set(hwpxDawnCell, dawn, nil)

	if p.err != nil {
		return fmt.Errorf("patch hwpx template: %w", p.err)
	}
	return nil
}

// hwpxEntryLines renders a grid cell for the template: a bullet on each
// entry's first line and an indent on its continuation lines.
func hwpxEntryLines(entries []ministry.Entry) []string {
	var lines []string
	for _, entry := range entries {
		prefix := "• "
		if entry.Category == ministry.CategoryVisitation {
			prefix = "￭ "
		}
		for i, line := range strings.Split(entry.Content, "\n") {
			if i == 0 {
				lines = append(lines, prefix+line)
			} else {
				lines = append(lines, "  "+line)
			}
		}
	}
	return lines
}
