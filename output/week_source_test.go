package output

import (
	"errors"
	"testing"
	"time"

	"ministrylog/internal/timeutil"
	"ministrylog/ministry"
)

type fakeWeekSource struct {
	from, to time.Time
	planDay  time.Time
	entries  []ministry.Entry
	plan     *ministry.WeeklyPlan
	err      error
}

func (f *fakeWeekSource) ListEntriesBetween(from, to time.Time) ([]ministry.Entry, error) {
	f.from, f.to = from, to
	return f.entries, f.err
}

func (f *fakeWeekSource) GetPlan(day time.Time) (*ministry.WeeklyPlan, error) {
	f.planDay = day
	return f.plan, nil
}

func (f *fakeWeekSource) GetNote(time.Time) (*ministry.WeeklyNote, error) {
	return nil, nil
}

func TestLoadWeek_UsesSundayWindow(t *testing.T) {
	t.Parallel()

	wednesday := time.Date(2024, time.June, 5, 15, 30, 0, 0, time.UTC)
	src := &fakeWeekSource{
		entries: []ministry.Entry{testEntry("2024-06-04", "09:00", ministry.CategoryWork, ministry.SubTypeMeeting, "x")},
		plan:    &ministry.WeeklyPlan{Plans: map[ministry.PlanSlot]string{ministry.PlanSunday: "예배"}},
	}

	input, err := LoadWeek(src, wednesday, ministry.Profile{Name: "홍길동"})
	if err != nil {
		t.Fatalf("load week: %v", err)
	}
	if timeutil.FormatDate(src.from) != "2024-06-02" || timeutil.FormatDate(src.to) != "2024-06-08" {
		t.Fatalf("unexpected query range %s..%s", src.from, src.to)
	}
	if timeutil.FormatDate(src.planDay) != "2024-06-02" {
		t.Fatalf("plan must be looked up by week start, got %s", src.planDay)
	}
	if len(input.Entries) != 1 || input.Plan == nil || input.Note != nil || input.Profile.Name != "홍길동" {
		t.Fatalf("unexpected week input %+v", input)
	}
}

func TestLoadWeek_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	if _, err := LoadWeek(&fakeWeekSource{err: boom}, time.Now(), ministry.Profile{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
