package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ministrylog/hwpx"
	"ministrylog/internal/logger"
	"ministrylog/ministry"
	"ministrylog/storage"
)

type fakeClipboard struct {
	mimeType string
	data     []byte
	err      error
}

func (c *fakeClipboard) Write(_ context.Context, mimeType string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.mimeType = mimeType
	c.data = data
	return nil
}

func seedExportDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.db")
	store, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	_, err = store.InsertEntries([]ministry.Entry{{
		Date:     time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		TimeSlot: "09:00",
		Category: ministry.CategoryVisitation,
		SubType:  ministry.SubTypeInPersonVisit,
		Content:  "김집사 댁",
	}})
	if err != nil {
		t.Fatalf("insert entries: %v", err)
	}
	return path
}

func newExportRequest(t *testing.T, formats ...string) exportRequest {
	t.Helper()
	return exportRequest{
		Day:       time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Formats:   formats,
		OutputDir: t.TempDir(),
		DBPath:    seedExportDB(t),
		Profile:   ministry.Profile{Name: "홍길동", Department: "청년부"},
	}
}

func outputFiles(t *testing.T, dir, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatalf("glob %s: %v", pattern, err)
	}
	return matches
}

func TestRunExport_CopyWritesClipboardOnly(t *testing.T) {
	req := newExportRequest(t, "html")
	req.Copy = true
	clip := &fakeClipboard{}
	var out bytes.Buffer

	if err := runExport(context.Background(), req, clip, logger.Nop(), &out); err != nil {
		t.Fatalf("export: %v", err)
	}
	if clip.mimeType != "text/html" || !strings.Contains(string(clip.data), "김집사 댁") {
		t.Fatalf("unexpected clipboard payload %q (%s)", clip.data, clip.mimeType)
	}
	if files := outputFiles(t, req.OutputDir, "*"); len(files) != 0 {
		t.Fatalf("no file expected after a clipboard copy, got %v", files)
	}
	if !strings.Contains(out.String(), "Copied week 2024-06-02") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunExport_CopyFallsBackToHTMLFile(t *testing.T) {
	req := newExportRequest(t, "html")
	req.Copy = true
	var out bytes.Buffer

	err := runExport(context.Background(), req, &fakeClipboard{err: errors.New("no display")}, logger.Nop(), &out)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	files := outputFiles(t, req.OutputDir, "*.html")
	if len(files) != 1 {
		t.Fatalf("expected one html file, got %v", files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(data), "김집사 댁") {
		t.Fatalf("html file misses the week's entry")
	}
	if !strings.Contains(out.String(), "Clipboard unavailable") {
		t.Fatalf("fallback not reported: %q", out.String())
	}
}

func TestRunExport_CopyRejectsOtherFormats(t *testing.T) {
	req := newExportRequest(t, "xlsx")
	req.Copy = true
	if err := runExport(context.Background(), req, &fakeClipboard{}, logger.Nop(), &bytes.Buffer{}); err == nil {
		t.Fatalf("expected --copy to be rejected for xlsx")
	}
}

func TestRunExport_TemplateFailureIsWrapped(t *testing.T) {
	req := newExportRequest(t, "hwpx")
	req.TemplatePath = filepath.Join(t.TempDir(), "missing.hwpx")

	err := runExport(context.Background(), req, nil, logger.Nop(), &bytes.Buffer{})
	if !errors.Is(err, hwpx.ErrTemplateUnavailable) {
		t.Fatalf("expected template error, got %v", err)
	}
	if !strings.Contains(err.Error(), "report template unavailable") || !strings.Contains(err.Error(), "missing.hwpx") {
		t.Fatalf("error should name the template: %v", err)
	}
	if files := outputFiles(t, req.OutputDir, "*"); len(files) != 0 {
		t.Fatalf("nothing may be written on template failure, got %v", files)
	}
}

func TestRunExport_BadTemplateURLOnlyAffectsHWPX(t *testing.T) {
	req := newExportRequest(t, "xlsx", "csv")
	req.TemplateURL = "ftp://templates.example/report.hwpx"

	if err := runExport(context.Background(), req, nil, logger.Nop(), &bytes.Buffer{}); err != nil {
		t.Fatalf("xlsx and csv must not need the template: %v", err)
	}
	if len(outputFiles(t, req.OutputDir, "*.xlsx")) != 1 || len(outputFiles(t, req.OutputDir, "*.csv")) != 1 {
		t.Fatalf("expected workbook and csv in %s", req.OutputDir)
	}

	req.Formats = []string{"hwpx"}
	err := runExport(context.Background(), req, nil, logger.Nop(), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "invalid template URL") {
		t.Fatalf("expected invalid template URL error, got %v", err)
	}
}

func TestOnlyClipboardFormat(t *testing.T) {
	tests := []struct {
		formats []string
		want    bool
	}{
		{formats: []string{"html"}, want: true},
		{formats: []string{"clipboard"}, want: true},
		{formats: []string{"xlsx"}, want: false},
		{formats: []string{"html", "xlsx"}, want: false},
		{formats: nil, want: false},
	}
	for _, tt := range tests {
		if got := onlyClipboardFormat(tt.formats); got != tt.want {
			t.Fatalf("%v: expected %v, got %v", tt.formats, tt.want, got)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := firstNonEmpty("", " "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
