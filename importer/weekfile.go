package importer

import (
	"fmt"
	"os"

	"ministrylog/internal/timeutil"
	"ministrylog/ministry"

	"gopkg.in/yaml.v3"
)

// WeekFile is the YAML form of one week's plan and note:
//
//	week: 2024-06-02
//	plans:
//	  주일: 주일 예배
//	  remarks: 수련회 준비
//	note: 특이 사항 없음
//	dawn: [월, 수]
type WeekFile struct {
	Week  string            `yaml:"week"`
	Plans map[string]string `yaml:"plans"`
	Note  string            `yaml:"note"`
	Dawn  []string          `yaml:"dawn"`
}

// ReadWeekFile loads a week file. The week date may be any day of the week;
// both results are keyed by the Sunday that starts it.
func ReadWeekFile(path string) (*ministry.WeeklyPlan, *ministry.WeeklyNote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read week file: %w", err)
	}
	return ParseWeekFile(data)
}

func ParseWeekFile(data []byte) (*ministry.WeeklyPlan, *ministry.WeeklyNote, error) {
	var file WeekFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse week file: %w", err)
	}

	day, err := parseDate(file.Week)
	if err != nil {
		return nil, nil, fmt.Errorf("week file: %w", err)
	}
	weekStart := timeutil.WeekOf(day).Start

	plan := &ministry.WeeklyPlan{WeekStart: weekStart, Plans: make(map[ministry.PlanSlot]string, len(file.Plans))}
	for key, text := range file.Plans {
		slot, err := ministry.ParsePlanSlot(key)
		if err != nil {
			return nil, nil, fmt.Errorf("week file: %w", err)
		}
		plan.Plans[slot] = text
	}

	note := &ministry.WeeklyNote{WeekStart: weekStart, SpecialNote: file.Note}
	for _, raw := range file.Dawn {
		label, ok := ministry.NormalizeDawnDay(raw)
		if !ok {
			return nil, nil, fmt.Errorf("week file: unknown dawn prayer day %q", raw)
		}
		note.DawnPrayerDays = append(note.DawnPrayerDays, label)
	}
	return plan, note, nil
}
