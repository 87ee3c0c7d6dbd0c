// Package hwpxtest builds small HWPX templates for tests.
package hwpxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"
	"testing"

	"ministrylog/hwpx"
)

const (
	// LegendText is the legend paragraph written above the table.
	LegendText = "■ 심방   ● 업무"
	// LegendCharPr marks runs cloned from the legend paragraph.
	LegendCharPr = "7"
	// CellCharPr marks runs that come from a cell's own paragraph.
	CellCharPr = "2"
)

type Options struct {
	Addresses   []hwpx.Address
	OmitLegend  bool
	OmitSection bool
}

// Placeholder is the text a fixture cell carries before patching.
func Placeholder(addr hwpx.Address) string {
	return fmt.Sprintf("PLACEHOLDER %d-%d", addr.Row, addr.Col)
}

// Template returns a zipped HWPX package whose section holds one table with
// a cell per address.
func Template(tb testing.TB, opts Options) []byte {
	tb.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	parts := []struct {
		name   string
		body   string
		method uint16
	}{
		{name: "mimetype", body: "application/hwp+zip", method: zip.Store},
		{name: "version.xml", body: `<?xml version="1.0" encoding="UTF-8"?><hv:HCFVersion xmlns:hv="http://www.hancom.co.kr/hwpml/2011/version" major="5" minor="1"/>`, method: zip.Deflate},
		{name: "META-INF/container.xml", body: `<?xml version="1.0" encoding="UTF-8"?><ocf:container xmlns:ocf="urn:oasis:names:tc:opendocument:xmlns:container"><ocf:rootfiles><ocf:rootfile full-path="Contents/content.hpf"/></ocf:rootfiles></ocf:container>`, method: zip.Deflate},
		{name: "Contents/header.xml", body: `<?xml version="1.0" encoding="UTF-8"?><hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head" version="1.4"/>`, method: zip.Deflate},
	}
	if !opts.OmitSection {
		parts = append(parts, struct {
			name   string
			body   string
			method uint16
		}{name: hwpx.SectionPath, body: section(opts), method: zip.Deflate})
	}

	for _, part := range parts {
		w, err := writer.CreateHeader(&zip.FileHeader{Name: part.name, Method: part.method})
		if err != nil {
			tb.Fatalf("create fixture part %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			tb.Fatalf("write fixture part %s: %v", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		tb.Fatalf("close fixture archive: %v", err)
	}
	return buf.Bytes()
}

func section(opts Options) string {
	addrs := append([]hwpx.Address(nil), opts.Addresses...)
	sort.Slice(addrs, func(i, j int) bool {
		if addrs[i].Row != addrs[j].Row {
			return addrs[i].Row < addrs[j].Row
		}
		return addrs[i].Col < addrs[j].Col
	})

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>` + "\n")
	b.WriteString(`<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">` + "\n")
	if !opts.OmitLegend {
		fmt.Fprintf(&b, `  <hp:p id="0" paraPrIDRef="9"><hp:run charPrIDRef="%s"><hp:t>%s</hp:t></hp:run><hp:linesegarray><hp:lineseg textpos="0" vertpos="0"/></hp:linesegarray></hp:p>`+"\n", LegendCharPr, LegendText)
	}
	b.WriteString(`  <hp:p id="1"><hp:run charPrIDRef="0"><hp:tbl>` + "\n")

	row := -1
	for _, addr := range addrs {
		if addr.Row != row {
			if row >= 0 {
				b.WriteString("    </hp:tr>\n")
			}
			b.WriteString("    <hp:tr>\n")
			row = addr.Row
		}
		fmt.Fprintf(&b, `      <hp:tc><hp:subList><hp:p paraPrIDRef="3"><hp:pPr lineSpacing="100" lineSpacingType="Fixed"/><hp:run charPrIDRef="%s"><hp:t>%s</hp:t><hp:t> tail</hp:t></hp:run><hp:linesegarray><hp:lineseg textpos="0"/></hp:linesegarray></hp:p></hp:subList><hp:cellAddr colAddr="%d" rowAddr="%d"/></hp:tc>`+"\n",
			CellCharPr, Placeholder(addr), addr.Col, addr.Row)
	}
	if row >= 0 {
		b.WriteString("    </hp:tr>\n")
	}
	b.WriteString("  </hp:tbl></hp:run></hp:p>\n")
	b.WriteString("</hs:sec>\n")
	return b.String()
}
