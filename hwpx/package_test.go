package hwpx_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"ministrylog/hwpx"
	"ministrylog/hwpx/hwpxtest"
)

func fixtureAddresses() []hwpx.Address {
	return []hwpx.Address{{Row: 0, Col: 0}, {Row: 3, Col: 1}, {Row: 3, Col: 3}, {Row: 19, Col: 1}}
}

func openFixture(t *testing.T, opts hwpxtest.Options) *hwpx.Package {
	t.Helper()
	pkg, err := hwpx.Open(hwpxtest.Template(t, opts))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	return pkg
}

func TestOpenIndexesCellAddresses(t *testing.T) {
	t.Parallel()

	pkg := openFixture(t, hwpxtest.Options{Addresses: fixtureAddresses()})

	got := pkg.Addresses()
	want := fixtureAddresses()
	if len(got) != len(want) {
		t.Fatalf("expected %d addresses, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("address %d: want %s, got %s", i, want[i], got[i])
		}
	}
	if _, ok := pkg.Cell(5, 5); ok {
		t.Fatalf("unexpected cell (5,5)")
	}
}

func TestOpenRejectsBrokenTemplates(t *testing.T) {
	t.Parallel()

	if _, err := hwpx.Open([]byte("not a zip")); !errors.Is(err, hwpx.ErrInvalidPackage) {
		t.Fatalf("expected ErrInvalidPackage, got %v", err)
	}

	data := hwpxtest.Template(t, hwpxtest.Options{Addresses: fixtureAddresses(), OmitSection: true})
	_, err := hwpx.Open(data)
	if !errors.Is(err, hwpx.ErrSectionMissing) {
		t.Fatalf("expected ErrSectionMissing, got %v", err)
	}
	if !hwpx.IsTemplateError(err) {
		t.Fatalf("missing section must classify as a template error")
	}
}

func TestSetCellTextRoundTrip(t *testing.T) {
	t.Parallel()

	pkg := openFixture(t, hwpxtest.Options{Addresses: fixtureAddresses()})
	if err := pkg.SetCellText(3, 1, []string{"￭ 김집사 심방", "  병원"}, nil); err != nil {
		t.Fatalf("set cell text: %v", err)
	}

	data, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("serialise: %v", err)
	}
	reopened, err := hwpx.Open(data)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got, err := reopened.CellText(3, 1)
	if err != nil {
		t.Fatalf("cell text: %v", err)
	}
	if got != "￭ 김집사 심방\n  병원" {
		t.Fatalf("unexpected cell text %q", got)
	}
	if strings.Contains(got, "PLACEHOLDER") || strings.Contains(got, "tail") {
		t.Fatalf("placeholder text survived: %q", got)
	}

	untouched, _ := reopened.CellText(3, 3)
	if untouched != hwpxtest.Placeholder(hwpx.Address{Row: 3, Col: 3})+" tail" {
		t.Fatalf("neighbouring cell changed: %q", untouched)
	}
}

func TestSetCellTextForcesPercentLineSpacing(t *testing.T) {
	t.Parallel()

	pkg := openFixture(t, hwpxtest.Options{Addresses: fixtureAddresses()})
	if err := pkg.SetCellText(0, 0, []string{"a", "b"}, nil); err != nil {
		t.Fatalf("set cell text: %v", err)
	}
	data, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("serialise: %v", err)
	}
	section := readPart(t, data, hwpx.SectionPath)

	if strings.Count(section, `lineSpacingType="Percent"`) != 2 {
		t.Fatalf("expected both new paragraphs to use percent spacing:\n%s", section)
	}
	if strings.Count(section, `lineSpacingType="Fixed"`) != 3 {
		t.Fatalf("expected untouched cells to keep fixed spacing:\n%s", section)
	}
}

func TestSetCellTextClonesStyleParagraph(t *testing.T) {
	t.Parallel()

	pkg := openFixture(t, hwpxtest.Options{Addresses: fixtureAddresses()})
	style := pkg.ParagraphContaining("심방")
	if style == nil {
		t.Fatalf("legend paragraph not found")
	}
	if err := pkg.SetCellText(19, 1, []string{"line"}, style.Copy()); err != nil {
		t.Fatalf("set cell text: %v", err)
	}

	cell, _ := pkg.Cell(19, 1)
	runs := cell.FindElements(".//run")
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	if got := runs[0].SelectAttrValue("charPrIDRef", ""); got != hwpxtest.LegendCharPr {
		t.Fatalf("expected legend char style, got %q", got)
	}
	if len(cell.FindElements(".//linesegarray")) != 0 {
		t.Fatalf("cached line segments must be dropped")
	}
	if props := cell.FindElements(".//pPr"); len(props) != 1 {
		t.Fatalf("expected a created paragraph properties element, got %d", len(props))
	}

	legend := pkg.ParagraphContaining("심방")
	if legend == nil || legend.FindElement(".//t").Text() != hwpxtest.LegendText {
		t.Fatalf("legend paragraph must stay intact")
	}
}

func TestSetCellTextEmptyKeepsOneBlankParagraph(t *testing.T) {
	t.Parallel()

	pkg := openFixture(t, hwpxtest.Options{Addresses: fixtureAddresses()})
	if err := pkg.SetCellText(3, 3, nil, nil); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	cell, _ := pkg.Cell(3, 3)
	if paras := cell.FindElements(".//p"); len(paras) != 1 {
		t.Fatalf("expected one paragraph, got %d", len(paras))
	}
	if got, _ := pkg.CellText(3, 3); got != "" {
		t.Fatalf("expected blank cell, got %q", got)
	}
}

func TestSetCellTextNormalisesToNFC(t *testing.T) {
	t.Parallel()

	pkg := openFixture(t, hwpxtest.Options{Addresses: fixtureAddresses()})
	decomposed := "\u1112\u1161\u11ab" // 한 as conjoining jamo
	if err := pkg.SetCellText(0, 0, []string{decomposed}, nil); err != nil {
		t.Fatalf("set cell text: %v", err)
	}
	if got, _ := pkg.CellText(0, 0); got != "\uD55C" {
		t.Fatalf("expected composed text, got %q", got)
	}
}

func TestSetCellTextUnknownAddress(t *testing.T) {
	t.Parallel()

	pkg := openFixture(t, hwpxtest.Options{Addresses: fixtureAddresses()})
	if err := pkg.SetCellText(42, 0, []string{"x"}, nil); !errors.Is(err, hwpx.ErrCellNotFound) {
		t.Fatalf("expected ErrCellNotFound, got %v", err)
	}
	if _, err := pkg.CellText(42, 0); !errors.Is(err, hwpx.ErrCellNotFound) {
		t.Fatalf("expected ErrCellNotFound, got %v", err)
	}
}

func TestBytesPreservesEntryOrderAndStoredMimetype(t *testing.T) {
	t.Parallel()

	original := hwpxtest.Template(t, hwpxtest.Options{Addresses: fixtureAddresses()})
	pkg, err := hwpx.Open(original)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	patched, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("serialise: %v", err)
	}

	before := zipEntries(t, original)
	after := zipEntries(t, patched)
	if len(before) != len(after) {
		t.Fatalf("entry count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Name != after[i].Name {
			t.Fatalf("entry %d: %s -> %s", i, before[i].Name, after[i].Name)
		}
	}
	if after[0].Name != "mimetype" || after[0].Method != zip.Store {
		t.Fatalf("mimetype must stay first and stored, got %s method %d", after[0].Name, after[0].Method)
	}
	if got := readPart(t, patched, "mimetype"); got != "application/hwp+zip" {
		t.Fatalf("unexpected mimetype %q", got)
	}
}

func zipEntries(t *testing.T, data []byte) []*zip.File {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	return reader.File
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	for _, file := range zipEntries(t, data) {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return buf.String()
	}
	t.Fatalf("part %s not found", name)
	return ""
}
