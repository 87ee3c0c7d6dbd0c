package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"ministrylog/ministry"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Entries        []ministry.Entry
}

// Run reads every path and maps its rows. A row that fails to map aborts the
// run so nothing partial reaches the store.
func Run(paths []string, format string, mapper *EntryMapper) (*Result, error) {
	if mapper == nil {
		mapper = &EntryMapper{}
	}
	result := &Result{Entries: make([]ministry.Entry, 0, 256)}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}
		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			entry, ok, mapErr := mapper.Map(record)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", filepath.Base(path), mapErr)
			}
			if !ok {
				result.RowsSkipped++
				continue
			}
			result.RowsMapped++
			result.Entries = append(result.Entries, entry)
		}
	}
	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "tsv", "txt":
		return "tsv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
