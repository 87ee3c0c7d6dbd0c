package importer

import (
	"fmt"
	"strings"
	"time"

	"ministrylog/ministry"
)

// Header aliases accepted for each entry field.
var (
	dateHeaders      = []string{"date", "날짜", "일자"}
	timeHeaders      = []string{"timeslot", "time", "시간", "시간대"}
	categoryHeaders  = []string{"category", "구분", "분류"}
	subTypeHeaders   = []string{"subtype", "type", "세부구분", "유형"}
	contentHeaders   = []string{"content", "description", "내용"}
	highlightHeaders = []string{"ishighlight", "highlight", "중요"}
	idHeaders        = []string{"id"}
)

// EntryMapper turns a record into a validated activity entry.
type EntryMapper struct {
	Now func() time.Time
}

// Map returns ok=false for rows without content, and an error naming the row
// for anything that cannot become a valid entry.
func (m *EntryMapper) Map(record Record) (ministry.Entry, bool, error) {
	content := strings.TrimSpace(record.Get(contentHeaders...))
	if content == "" {
		return ministry.Entry{}, false, nil
	}

	date, err := parseDate(record.Get(dateHeaders...))
	if err != nil {
		return ministry.Entry{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	slot, err := normalizeTimeSlot(record.Get(timeHeaders...))
	if err != nil {
		return ministry.Entry{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	category, err := ministry.ParseCategory(record.Get(categoryHeaders...))
	if err != nil {
		return ministry.Entry{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	subType, err := ministry.ParseSubType(category, record.Get(subTypeHeaders...))
	if err != nil {
		return ministry.Entry{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}

	id := record.Get(idHeaders...)
	if id == "" {
		id = ministry.NewID()
	}
	entry := ministry.Entry{
		ID:          id,
		Date:        date,
		TimeSlot:    slot,
		Category:    category,
		SubType:     subType,
		Content:     content,
		IsHighlight: parseBool(record.Get(highlightHeaders...)),
		CreatedAt:   m.now(),
	}
	if err := ministry.Validate(entry); err != nil {
		return ministry.Entry{}, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	return entry, true, nil
}

func (m *EntryMapper) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}
