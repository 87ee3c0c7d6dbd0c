package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ministrylog/internal/timeutil"
	"ministrylog/ministry"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrEntryNotFound = errors.New("entry not found")

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	entry_date TEXT NOT NULL,
	time_slot TEXT NOT NULL,
	category TEXT NOT NULL,
	sub_type TEXT NOT NULL,
	content TEXT NOT NULL,
	is_highlight INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_by_date ON entries (entry_date);
CREATE TABLE IF NOT EXISTS weekly_plans (
	week_start TEXT NOT NULL,
	slot INTEGER NOT NULL CHECK(slot >= 0 AND slot < 8),
	plan_text TEXT NOT NULL,
	PRIMARY KEY (week_start, slot)
);
CREATE TABLE IF NOT EXISTS weekly_notes (
	week_start TEXT PRIMARY KEY,
	special_note TEXT NOT NULL,
	dawn_days TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertEntries validates and stores entries in one transaction. Entries whose
// ID already exists are ignored; the count of new rows is returned.
func (s *SQLiteStore) InsertEntries(entries []ministry.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	for _, entry := range entries {
		if err := ministry.Validate(entry); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO entries (
	id,
	entry_date,
	time_slot,
	category,
	sub_type,
	content,
	is_highlight,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = ministry.NewID()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		res, err := stmt.Exec(
			entry.ID,
			timeutil.FormatDate(entry.Date),
			entry.TimeSlot,
			string(entry.Category),
			string(entry.SubType),
			entry.Content,
			boolToInt(entry.IsHighlight),
			entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert entry: %w", err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

const selectEntries = `
SELECT
	id,
	entry_date,
	time_slot,
	category,
	sub_type,
	content,
	is_highlight,
	created_at
FROM entries`

// ListEntriesBetween returns entries dated from..to inclusive, in date and
// insertion order.
func (s *SQLiteStore) ListEntriesBetween(from, to time.Time) ([]ministry.Entry, error) {
	rows, err := s.db.Query(
		selectEntries+"\nWHERE entry_date BETWEEN ? AND ?\nORDER BY entry_date, rowid;",
		timeutil.FormatDate(from),
		timeutil.FormatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]ministry.Entry, 0, 64)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// GetEntry returns one entry by ID.
func (s *SQLiteStore) GetEntry(id string) (ministry.Entry, bool, error) {
	entry, err := scanEntry(s.db.QueryRow(selectEntries+"\nWHERE id = ?;", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ministry.Entry{}, false, nil
		}
		return ministry.Entry{}, false, err
	}
	return entry, true, nil
}

// UpdateEntry replaces the user-editable fields of an existing entry.
func (s *SQLiteStore) UpdateEntry(entry ministry.Entry) error {
	if err := ministry.Validate(entry); err != nil {
		return err
	}

	const updateStmt = `
UPDATE entries
SET entry_date = ?,
	time_slot = ?,
	category = ?,
	sub_type = ?,
	content = ?,
	is_highlight = ?
WHERE id = ?;`

	res, err := s.db.Exec(
		updateStmt,
		timeutil.FormatDate(entry.Date),
		entry.TimeSlot,
		string(entry.Category),
		string(entry.SubType),
		entry.Content,
		boolToInt(entry.IsHighlight),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry %s: %w", entry.ID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (s *SQLiteStore) DeleteEntry(id string) error {
	res, err := s.db.Exec(`DELETE FROM entries WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read deleted row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteAllEntries() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM entries;`)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

// SavePlan replaces every plan slot of the plan's week. Blank slots are not
// stored.
func (s *SQLiteStore) SavePlan(plan ministry.WeeklyPlan) error {
	weekStart := timeutil.FormatDate(timeutil.WeekOf(plan.WeekStart).Start)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM weekly_plans WHERE week_start = ?;`, weekStart); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear plan %s: %w", weekStart, err)
	}
	for slot, text := range plan.Plans {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO weekly_plans (week_start, slot, plan_text) VALUES (?, ?, ?);`,
			weekStart, int(slot), text,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert plan %s slot %d: %w", weekStart, slot, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit plan: %w", err)
	}
	return nil
}

// GetPlan returns the plan of the week containing day, or nil when none was
// saved.
func (s *SQLiteStore) GetPlan(day time.Time) (*ministry.WeeklyPlan, error) {
	weekStart := timeutil.WeekOf(day).Start
	rows, err := s.db.Query(
		`SELECT slot, plan_text FROM weekly_plans WHERE week_start = ? ORDER BY slot;`,
		timeutil.FormatDate(weekStart),
	)
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	defer rows.Close()

	plan := &ministry.WeeklyPlan{WeekStart: weekStart, Plans: map[ministry.PlanSlot]string{}}
	for rows.Next() {
		var (
			slot int
			text string
		)
		if err := rows.Scan(&slot, &text); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plan.Plans[ministry.PlanSlot(slot)] = text
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan: %w", err)
	}
	if len(plan.Plans) == 0 {
		return nil, nil
	}
	return plan, nil
}

// SaveNote upserts the note of the note's week. Dawn prayer days are stored
// normalised.
func (s *SQLiteStore) SaveNote(note ministry.WeeklyNote) error {
	weekStart := timeutil.FormatDate(timeutil.WeekOf(note.WeekStart).Start)
	const upsert = `
INSERT INTO weekly_notes (week_start, special_note, dawn_days) VALUES (?, ?, ?)
ON CONFLICT(week_start) DO UPDATE SET
	special_note = excluded.special_note,
	dawn_days = excluded.dawn_days;`

	if _, err := s.db.Exec(upsert, weekStart, note.SpecialNote, strings.Join(note.AttendedDays(), ",")); err != nil {
		return fmt.Errorf("save note %s: %w", weekStart, err)
	}
	return nil
}

// GetNote returns the note of the week containing day, or nil when none was
// saved.
func (s *SQLiteStore) GetNote(day time.Time) (*ministry.WeeklyNote, error) {
	weekStart := timeutil.WeekOf(day).Start
	var (
		special string
		dawn    string
	)
	err := s.db.QueryRow(
		`SELECT special_note, dawn_days FROM weekly_notes WHERE week_start = ?;`,
		timeutil.FormatDate(weekStart),
	).Scan(&special, &dawn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query note: %w", err)
	}

	note := &ministry.WeeklyNote{WeekStart: weekStart, SpecialNote: special}
	if dawn != "" {
		note.DawnPrayerDays = strings.Split(dawn, ",")
	}
	return note, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (ministry.Entry, error) {
	var (
		entry      ministry.Entry
		dateRaw    string
		category   string
		subType    string
		createdRaw string
	)
	if err := row.Scan(
		&entry.ID,
		&dateRaw,
		&entry.TimeSlot,
		&category,
		&subType,
		&entry.Content,
		&entry.IsHighlight,
		&createdRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ministry.Entry{}, err
		}
		return ministry.Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	entry.Category = ministry.Category(category)
	entry.SubType = ministry.SubType(subType)

	var err error
	entry.Date, err = timeutil.ParseDate(dateRaw)
	if err != nil {
		return ministry.Entry{}, fmt.Errorf("parse entry date %q: %w", dateRaw, err)
	}
	entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return ministry.Entry{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	return entry, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
