package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"ministrylog/internal/logger"
	"ministrylog/internal/observability"
	"ministrylog/internal/timegrid"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"
)

// CSVHeaders are the columns of the entry CSV; the importer reads the same
// names back.
var CSVHeaders = []string{"Date", "TimeSlot", "Category", "SubType", "Content", "IsHighlight", "ID"}

// utf8BOM lets spreadsheet programs detect UTF-8 for Korean text.
const utf8BOM = "\uFEFF"

// CSVWriter exports the week's raw entries as CSV.
type CSVWriter struct {
	Log *logger.Logger
}

func (w *CSVWriter) Format() string {
	return "csv"
}

func (w *CSVWriter) Export(ctx context.Context, input WeekInput, sink Sink) (artifact *Artifact, err error) {
	started := time.Now()
	defer func() { observability.RecordExport(w.Format(), started, err) }()

	data, err := w.Render(input)
	if err != nil {
		logger.OrNop(w.Log).Error("render entry csv failed", "week", timeutil.FormatDate(input.Window.Start), "error", err)
		return nil, err
	}
	return deliver(ctx, sink, &Artifact{
		Name:     fmt.Sprintf("활동기록_%s_%s.csv", timeutil.FormatDate(input.Window.Start), sanitizeFileComponent(input.Profile.Name)),
		MIMEType: MIMETypeCSV,
		Data:     data,
	})
}

// Render writes the entries dated inside the week, ordered by day and slot.
// Entries whose slot is not on the grid sort last within their day.
func (w *CSVWriter) Render(input WeekInput) ([]byte, error) {
	entries := make([]ministry.Entry, 0, len(input.Entries))
	for _, entry := range input.Entries {
		if input.Window.Contains(entry.Date) {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := timeutil.Date(entries[i].Date), timeutil.Date(entries[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return slotOrder(entries[i].TimeSlot) < slotOrder(entries[j].TimeSlot)
	})

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, entry := range entries {
		row := []string{
			timeutil.FormatDate(entry.Date),
			entry.TimeSlot,
			string(entry.Category),
			string(entry.SubType),
			entry.Content,
			strconv.FormatBool(entry.IsHighlight),
			entry.ID,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv output: %w", err)
	}
	return buf.Bytes(), nil
}

func slotOrder(slot string) int {
	if idx, ok := timegrid.Index(slot); ok {
		return idx
	}
	return timegrid.Len()
}
