package importer

import (
	"fmt"
	"strings"
)

// Reader turns a source file into header-keyed records.
type Reader interface {
	Read(path string) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "tsv", "txt":
		return &CSVReader{Comma: '\t'}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// Record is one data row keyed by normalised header.
type Record struct {
	RowNumber int
	Values    map[string]string
}

// Get returns the first non-missing value among the given header aliases.
func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		if value, ok := r.Values[normalizeHeader(key)]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// blank reports whether every cell of the row is empty.
func (r Record) blank() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.TrimPrefix(trimmed, "\uFEFF")
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(trimmed)
}

// recordsFromRows keys each row by the header row. firstRow is the file row
// number of rows[0].
func recordsFromRows(headers []string, rows [][]string, firstRow int) []Record {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = normalizeHeader(header)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		values := make(map[string]string, len(normalized))
		for col, header := range normalized {
			if header == "" {
				continue
			}
			if col < len(row) {
				values[header] = row[col]
			} else {
				values[header] = ""
			}
		}
		record := Record{RowNumber: firstRow + i, Values: values}
		if record.blank() {
			continue
		}
		records = append(records, record)
	}
	return records
}
