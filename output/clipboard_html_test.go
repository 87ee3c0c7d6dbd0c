package output

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ministrylog/internal/timegrid"
	"ministrylog/ministry"
)

type recordingClipboard struct {
	mimeType string
	data     []byte
	err      error
}

func (c *recordingClipboard) Write(_ context.Context, mimeType string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.mimeType = mimeType
	c.data = append([]byte(nil), data...)
	return nil
}

func tableRows(t *testing.T, html string) []string {
	t.Helper()
	parts := strings.Split(html, "<tr")
	if len(parts) < 2 {
		t.Fatalf("no rows rendered: %s", html)
	}
	return parts[1:]
}

func renderClipboard(t *testing.T, input WeekInput) string {
	t.Helper()
	data, err := (&ClipboardHTML{}).Render(input)
	if err != nil {
		t.Fatalf("render clipboard table: %v", err)
	}
	return string(data)
}

func TestClipboardHTML_UniformRowsWithoutSpans(t *testing.T) {
	t.Parallel()

	input := testWeekInput([]ministry.Entry{
		testEntry("2024-06-03", "09:00", ministry.CategoryWork, ministry.SubTypeMeeting, "Staff sync"),
	})
	input.Plan = &ministry.WeeklyPlan{Plans: map[ministry.PlanSlot]string{ministry.PlanRemarks: "휴가"}}
	html := renderClipboard(t, input)

	if strings.Contains(html, "rowspan") || strings.Contains(html, "colspan") {
		t.Fatalf("clipboard table must not use spans:\n%s", html)
	}

	rows := tableRows(t, html)
	wantRows := 1 + timegrid.Len() + len(ministry.VisitKinds()) + 1
	if len(rows) != wantRows {
		t.Fatalf("expected %d rows, got %d", wantRows, len(rows))
	}
	for i, row := range rows {
		if got := strings.Count(row, "<td"); got != clipboardColumns {
			t.Fatalf("row %d has %d cells, want %d", i, got, clipboardColumns)
		}
	}
}

func TestClipboardHTML_PlacesEntriesAndPlans(t *testing.T) {
	t.Parallel()

	input := testWeekInput([]ministry.Entry{
		testEntry("2024-06-03", "09:00", ministry.CategoryWork, ministry.SubTypeMeeting, "A"),
		testEntry("2024-06-03", "09:00", ministry.CategoryVisitation, ministry.SubTypeCafeVisit, "B"),
	})
	input.Plan = &ministry.WeeklyPlan{Plans: map[ministry.PlanSlot]string{
		ministry.PlanMonday:  "교사 모임",
		ministry.PlanRemarks: "수련회",
	}}
	rows := tableRows(t, renderClipboard(t, input))

	nineAM, _ := timegrid.Index("09:00")
	row := rows[1+nineAM]
	if !strings.Contains(row, "● A<br/><br/>■ B") {
		t.Fatalf("expected both entries in input order, got %s", row)
	}

	monday := rows[1+2*int(ministry.PlanMonday)]
	if !strings.Contains(monday, "<b>[월]</b> 교사 모임") {
		t.Fatalf("expected inline monday plan, got %s", monday)
	}
	remarks := rows[1+remarksSlotIndex]
	if !strings.Contains(remarks, "<b>[비고]</b> 수련회") {
		t.Fatalf("expected inline remarks plan, got %s", remarks)
	}
	if strings.Contains(rows[2], "[") {
		t.Fatalf("odd slot rows carry no plan label, got %s", rows[2])
	}
}

func TestClipboardHTML_MealRowsShowLabelOnly(t *testing.T) {
	t.Parallel()

	input := testWeekInput([]ministry.Entry{
		testEntry("2024-06-05", timegrid.LunchSlot, ministry.CategoryWork, ministry.SubTypeMeeting, "leaked"),
	})
	rows := tableRows(t, renderClipboard(t, input))

	lunch, _ := timegrid.Index(timegrid.LunchSlot)
	row := rows[1+lunch]
	if strings.Contains(row, "leaked") {
		t.Fatalf("meal row rendered entry content: %s", row)
	}
	if strings.Count(row, timegrid.LunchLabel) != 1 {
		t.Fatalf("expected one lunch label, got %s", row)
	}
}

func TestClipboardHTML_EscapesContent(t *testing.T) {
	t.Parallel()

	input := testWeekInput([]ministry.Entry{
		testEntry("2024-06-04", "10:00", ministry.CategoryOther, ministry.SubTypeOther, "<script>x</script>"),
	})
	html := renderClipboard(t, input)
	if strings.Contains(html, "<script>") {
		t.Fatalf("entry content must be escaped:\n%s", html)
	}
}

func TestClipboardHTML_StatsAndFooter(t *testing.T) {
	t.Parallel()

	input := testWeekInput([]ministry.Entry{
		testEntry("2024-06-04", "09:00", ministry.CategoryVisitation, ministry.SubTypeInPersonVisit, "1"),
		testEntry("2024-06-04", "10:00", ministry.CategoryVisitation, ministry.SubTypeInPersonVisit, "2"),
	})
	input.Note = &ministry.WeeklyNote{SpecialNote: "특이 없음", DawnPrayerDays: []string{"수", "Mon"}}
	rows := tableRows(t, renderClipboard(t, input))

	stats := rows[1+timegrid.Len()]
	if !strings.Contains(stats, "방문: 2회") || !strings.Contains(stats, "방문심방: 총 2회") {
		t.Fatalf("unexpected in-person stats row: %s", stats)
	}
	footer := rows[len(rows)-1]
	if !strings.Contains(footer, "특이 없음") || !strings.Contains(footer, "월,수<br/>(2회 참석)") {
		t.Fatalf("unexpected footer row: %s", footer)
	}
}

func TestCopyToClipboard(t *testing.T) {
	t.Parallel()

	input := testWeekInput(nil)

	clip := &recordingClipboard{}
	if !CopyToClipboard(context.Background(), clip, input) {
		t.Fatalf("expected successful copy")
	}
	if clip.mimeType != MIMETypeHTML || !strings.HasPrefix(string(clip.data), "<table") {
		t.Fatalf("unexpected clipboard payload %q (%s)", clip.data, clip.mimeType)
	}

	if CopyToClipboard(context.Background(), &recordingClipboard{err: errors.New("permission denied")}, input) {
		t.Fatalf("expected clipboard failure to report false")
	}
	if CopyToClipboard(context.Background(), nil, input) {
		t.Fatalf("expected missing clipboard to report false")
	}
}

func TestClipboardHTML_ExportArtifact(t *testing.T) {
	t.Parallel()

	artifact, err := (&ClipboardHTML{}).Export(context.Background(), testWeekInput(nil), nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if artifact.Name != "주간사역일지_2024-06-02_홍길동.html" || artifact.MIMEType != MIMETypeHTML {
		t.Fatalf("unexpected artifact %s (%s)", artifact.Name, artifact.MIMEType)
	}
}
