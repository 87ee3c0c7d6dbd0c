package output

import (
	"context"
	"fmt"
	"strings"

	"ministrylog/hwpx"
	"ministrylog/internal/logger"
)

// Exporter renders one week into an artifact and optionally delivers it.
type Exporter interface {
	Format() string
	Export(ctx context.Context, input WeekInput, sink Sink) (*Artifact, error)
}

type ExporterOptions struct {
	Log      *logger.Logger
	Template hwpx.TemplateSource
}

// Formats lists the export formats in the order the CLI shows them.
func Formats() []string {
	return []string{"xlsx", "hwpx", "html", "csv"}
}

func ExporterForFormat(format string, opts ExporterOptions) (Exporter, error) {
	switch normalizeFormat(format) {
	case "xlsx", "excel":
		return &ExcelWriter{Log: opts.Log}, nil
	case "hwpx", "hwp":
		return &HWPXWriter{Log: opts.Log, Template: opts.Template}, nil
	case "html", "clipboard":
		return &ClipboardHTML{Log: opts.Log}, nil
	case "csv":
		return &CSVWriter{Log: opts.Log}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
