package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ministrylog/ministry"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ministrylog_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func newEntry(t *testing.T, id, date, slot, content string) ministry.Entry {
	t.Helper()
	return ministry.Entry{
		ID:        id,
		Date:      mustDate(t, date),
		TimeSlot:  slot,
		Category:  ministry.CategoryVisitation,
		SubType:   ministry.SubTypeInPersonVisit,
		Content:   content,
		CreatedAt: time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_InsertIgnoresDuplicateIDs(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	entries := []ministry.Entry{
		newEntry(t, "a", "2024-06-02", "09:00", "first"),
		newEntry(t, "b", "2024-06-03", "10:00", "second"),
	}
	inserted, err := store.InsertEntries(entries)
	if err != nil {
		t.Fatalf("insert entries: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", inserted)
	}

	inserted, err = store.InsertEntries(entries[:1])
	if err != nil {
		t.Fatalf("re-insert entries: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected duplicate id to be ignored, got %d", inserted)
	}
}

func TestSQLiteStore_InsertRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	invalid := newEntry(t, "x", "2024-06-02", "09:00", "bad")
	invalid.SubType = ministry.SubTypeMeeting
	if _, err := store.InsertEntries([]ministry.Entry{newEntry(t, "ok", "2024-06-02", "09:00", "ok"), invalid}); err == nil {
		t.Fatalf("expected validation error")
	}

	listed, err := store.ListEntriesBetween(mustDate(t, "2024-06-01"), mustDate(t, "2024-06-30"))
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("nothing may be stored when validation fails, got %d", len(listed))
	}
}

func TestSQLiteStore_ListEntriesBetween(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	highlighted := newEntry(t, "c", "2024-06-04", "11:00", "김집사\n병원")
	highlighted.IsHighlight = true
	if _, err := store.InsertEntries([]ministry.Entry{
		newEntry(t, "a", "2024-06-01", "09:00", "before"),
		highlighted,
		newEntry(t, "b", "2024-06-02", "09:00", "sunday"),
		newEntry(t, "d", "2024-06-08", "20:00", "saturday"),
		newEntry(t, "e", "2024-06-09", "09:00", "after"),
	}); err != nil {
		t.Fatalf("insert entries: %v", err)
	}

	listed, err := store.ListEntriesBetween(mustDate(t, "2024-06-02"), mustDate(t, "2024-06-08"))
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 entries in window, got %d", len(listed))
	}
	wantIDs := []string{"b", "c", "d"}
	for i, want := range wantIDs {
		if listed[i].ID != want {
			t.Fatalf("entry %d: want %s, got %s", i, want, listed[i].ID)
		}
	}

	got := listed[1]
	if got.Content != "김집사\n병원" || !got.IsHighlight || got.SubType != ministry.SubTypeInPersonVisit {
		t.Fatalf("unexpected round-tripped entry %+v", got)
	}
	if !got.Date.Equal(mustDate(t, "2024-06-04")) || !got.CreatedAt.Equal(highlighted.CreatedAt) {
		t.Fatalf("unexpected dates %s / %s", got.Date, got.CreatedAt)
	}
}

func TestSQLiteStore_UpdateAndDeleteEntry(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	entry := newEntry(t, "a", "2024-06-02", "09:00", "before")
	if _, err := store.InsertEntries([]ministry.Entry{entry}); err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	entry.Content = "after"
	entry.TimeSlot = "14:00"
	if err := store.UpdateEntry(entry); err != nil {
		t.Fatalf("update entry: %v", err)
	}
	got, ok, err := store.GetEntry("a")
	if err != nil || !ok {
		t.Fatalf("get entry: ok=%v err=%v", ok, err)
	}
	if got.Content != "after" || got.TimeSlot != "14:00" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := store.DeleteEntry("a"); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if _, ok, _ := store.GetEntry("a"); ok {
		t.Fatalf("entry still present after delete")
	}
	if err := store.DeleteEntry("a"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	missing := newEntry(t, "zz", "2024-06-02", "09:00", "x")
	if err := store.UpdateEntry(missing); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on update, got %v", err)
	}
}

func TestSQLiteStore_DeleteAllEntries(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if _, err := store.InsertEntries([]ministry.Entry{
		newEntry(t, "a", "2024-06-02", "09:00", "one"),
		newEntry(t, "b", "2024-06-03", "09:00", "two"),
	}); err != nil {
		t.Fatalf("insert entries: %v", err)
	}

	deleted, err := store.DeleteAllEntries()
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}
}

func TestSQLiteStore_PlanIsKeyedByWeek(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if plan, err := store.GetPlan(mustDate(t, "2024-06-05")); err != nil || plan != nil {
		t.Fatalf("expected no plan, got %+v (%v)", plan, err)
	}

	// Saved from a Wednesday; read back from the following Saturday.
	if err := store.SavePlan(ministry.WeeklyPlan{
		WeekStart: mustDate(t, "2024-06-05"),
		Plans: map[ministry.PlanSlot]string{
			ministry.PlanSunday:  "주일 예배",
			ministry.PlanMonday:  "  ",
			ministry.PlanRemarks: "수련회",
		},
	}); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	plan, err := store.GetPlan(mustDate(t, "2024-06-08"))
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if !plan.WeekStart.Equal(mustDate(t, "2024-06-02")) {
		t.Fatalf("unexpected week start %s", plan.WeekStart)
	}
	if len(plan.Plans) != 2 || plan.Text(ministry.PlanRemarks) != "수련회" {
		t.Fatalf("unexpected plans %+v", plan.Plans)
	}

	if err := store.SavePlan(ministry.WeeklyPlan{
		WeekStart: mustDate(t, "2024-06-02"),
		Plans:     map[ministry.PlanSlot]string{ministry.PlanFriday: "금요 기도회"},
	}); err != nil {
		t.Fatalf("replace plan: %v", err)
	}
	plan, err = store.GetPlan(mustDate(t, "2024-06-02"))
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if len(plan.Plans) != 1 || plan.Text(ministry.PlanFriday) != "금요 기도회" {
		t.Fatalf("expected plan to be replaced, got %+v", plan.Plans)
	}
}

func TestSQLiteStore_NoteUpsert(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if note, err := store.GetNote(mustDate(t, "2024-06-02")); err != nil || note != nil {
		t.Fatalf("expected no note, got %+v (%v)", note, err)
	}

	if err := store.SaveNote(ministry.WeeklyNote{
		WeekStart:      mustDate(t, "2024-06-02"),
		SpecialNote:    "first",
		DawnPrayerDays: []string{"Fri", "월", "월"},
	}); err != nil {
		t.Fatalf("save note: %v", err)
	}
	if err := store.SaveNote(ministry.WeeklyNote{
		WeekStart:      mustDate(t, "2024-06-04"),
		SpecialNote:    "second",
		DawnPrayerDays: []string{"수", "월"},
	}); err != nil {
		t.Fatalf("overwrite note: %v", err)
	}

	note, err := store.GetNote(mustDate(t, "2024-06-07"))
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if note.SpecialNote != "second" {
		t.Fatalf("unexpected note %q", note.SpecialNote)
	}
	if len(note.DawnPrayerDays) != 2 || note.DawnPrayerDays[0] != "월" || note.DawnPrayerDays[1] != "수" {
		t.Fatalf("expected normalised dawn days, got %v", note.DawnPrayerDays)
	}
}
