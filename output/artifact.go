package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ministrylog/internal/timeutil"
)

const (
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMETypeHWPX = "application/hwp+zip"
	MIMETypeHTML = "text/html"
	MIMETypeCSV  = "text/csv"
)

// Artifact is a rendered report held in memory.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Sink delivers a finished artifact: to disk, to an HTTP response, etc.
type Sink interface {
	Deliver(ctx context.Context, artifact *Artifact) error
}

// DirSink writes artifacts into a directory. The file appears atomically so a
// failed write never leaves a partial report behind.
type DirSink struct {
	Dir string

	// Written holds the path of the last delivered file.
	Written string
}

func (s *DirSink) Deliver(ctx context.Context, artifact *Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := s.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	target := filepath.Join(dir, artifact.Name)
	tmp, err := os.CreateTemp(dir, ".ministrylog-*")
	if err != nil {
		return fmt.Errorf("create temp output in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(artifact.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write output %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close output %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("move output into place %s: %w", target, err)
	}
	s.Written = target
	return nil
}

// deliver hands the artifact to sink when one is given; a nil sink means the
// caller only wants the in-memory artifact.
func deliver(ctx context.Context, sink Sink, artifact *Artifact) (*Artifact, error) {
	if sink == nil {
		return artifact, nil
	}
	if err := sink.Deliver(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

// SpreadsheetFileName follows 주간사역일지_<YYYY-MM-DD>_<name>.xlsx.
func SpreadsheetFileName(window timeutil.WeekWindow, staffName string) string {
	return fmt.Sprintf("주간사역일지_%s_%s.xlsx", timeutil.FormatDate(window.Start), sanitizeFileComponent(staffName))
}

// ClipboardFileName names the saved clipboard payload after the workbook.
func ClipboardFileName(window timeutil.WeekWindow, staffName string) string {
	return fmt.Sprintf("주간사역일지_%s_%s.html", timeutil.FormatDate(window.Start), sanitizeFileComponent(staffName))
}

// HWPXFileName follows <M>월_<N>주_주간사역일지_<name>.hwpx.
func HWPXFileName(window timeutil.WeekWindow, staffName string) string {
	return fmt.Sprintf("%d월_%d주_주간사역일지_%s.hwpx",
		int(window.Start.Month()),
		timeutil.WeekOfMonth(window.Start),
		sanitizeFileComponent(staffName),
	)
}

func sanitizeFileComponent(value string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "")
	return strings.TrimSpace(replacer.Replace(value))
}
