package hwpx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"
)

// SectionPath is the body part every template must carry.
const SectionPath = "Contents/section0.xml"

const (
	tagCell      = "hp:tc"
	tagCellAddr  = "hp:cellAddr"
	tagSubList   = "hp:subList"
	tagParagraph = "hp:p"
	tagParaProps = "hp:pPr"
	tagRun       = "hp:run"
	tagText      = "hp:t"
	tagLineSegs  = "hp:linesegarray"

	// Fixed line spacing makes multi-line cell text overlap; percent spacing
	// lets the word processor grow the line box.
	lineSpacing     = "160"
	lineSpacingType = "Percent"
)

var (
	ErrTemplateUnavailable = errors.New("hwpx template unavailable")
	ErrSectionMissing      = errors.New("hwpx template has no " + SectionPath)
	ErrInvalidPackage      = errors.New("hwpx template is not a valid package")
	ErrCellNotFound        = errors.New("hwpx cell address not found")
)

// IsTemplateError reports whether err stems from the template asset rather
// than from the data being written into it.
func IsTemplateError(err error) bool {
	return errors.Is(err, ErrTemplateUnavailable) ||
		errors.Is(err, ErrSectionMissing) ||
		errors.Is(err, ErrInvalidPackage) ||
		errors.Is(err, ErrCellNotFound)
}

// Address is a table cell position as recorded by hp:cellAddr.
type Address struct {
	Row int
	Col int
}

func (a Address) String() string {
	return fmt.Sprintf("(%d,%d)", a.Row, a.Col)
}

// Package is an opened template: the archive plus the parsed body section.
type Package struct {
	archive *zip.Reader
	section *etree.Document
	cells   map[Address]*etree.Element
}

// Open reads a template archive and indexes its addressed table cells.
func Open(data []byte) (*Package, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}

	var sectionFile *zip.File
	for _, file := range archive.File {
		if file.Name == SectionPath {
			sectionFile = file
			break
		}
	}
	if sectionFile == nil {
		return nil, ErrSectionMissing
	}

	raw, err := readZipFile(sectionFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidPackage, SectionPath, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidPackage, SectionPath, err)
	}

	pkg := &Package{
		archive: archive,
		section: doc,
		cells:   make(map[Address]*etree.Element),
	}
	walk(doc.Root(), func(el *etree.Element) bool {
		if el.FullTag() != tagCellAddr {
			return true
		}
		row, rowErr := strconv.Atoi(el.SelectAttrValue("rowAddr", ""))
		col, colErr := strconv.Atoi(el.SelectAttrValue("colAddr", ""))
		if rowErr != nil || colErr != nil || el.Parent() == nil {
			return true
		}
		addr := Address{Row: row, Col: col}
		if _, seen := pkg.cells[addr]; !seen {
			pkg.cells[addr] = el.Parent()
		}
		return true
	})
	return pkg, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// walk visits el and its descendants depth-first until visit returns false.
func walk(el *etree.Element, visit func(*etree.Element) bool) bool {
	if el == nil {
		return true
	}
	if !visit(el) {
		return false
	}
	for _, child := range el.ChildElements() {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

func descendants(el *etree.Element, fullTag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		walk(child, func(e *etree.Element) bool {
			if e.FullTag() == fullTag {
				out = append(out, e)
			}
			return true
		})
	}
	return out
}

func firstDescendant(el *etree.Element, fullTag string) *etree.Element {
	var found *etree.Element
	for _, child := range el.ChildElements() {
		walk(child, func(e *etree.Element) bool {
			if e.FullTag() == fullTag {
				found = e
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// Cell returns the hp:tc element at addr.
func (p *Package) Cell(row, col int) (*etree.Element, bool) {
	cell, ok := p.cells[Address{Row: row, Col: col}]
	return cell, ok
}

// Addresses lists every addressed cell in row, then column order.
func (p *Package) Addresses() []Address {
	out := make([]Address, 0, len(p.cells))
	for addr := range p.cells {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// ParagraphContaining returns the first paragraph whose text run contains
// text, or nil.
func (p *Package) ParagraphContaining(text string) *etree.Element {
	var found *etree.Element
	walk(p.section.Root(), func(el *etree.Element) bool {
		if el.FullTag() != tagText || !strings.Contains(textOf(el), text) {
			return true
		}
		for parent := el.Parent(); parent != nil; parent = parent.Parent() {
			if parent.FullTag() == tagParagraph {
				found = parent
				return false
			}
		}
		return true
	})
	return found
}

// FirstParagraph returns the first paragraph inside the cell at (row, col).
func (p *Package) FirstParagraph(row, col int) *etree.Element {
	cell, ok := p.Cell(row, col)
	if !ok {
		return nil
	}
	return firstDescendant(cell, tagParagraph)
}

// SetCellText replaces the paragraphs of the cell at (row, col) with one
// paragraph per line. Each paragraph is cloned from style when given, or
// from the cell's own first paragraph otherwise.
func (p *Package) SetCellText(row, col int, lines []string, style *etree.Element) error {
	addr := Address{Row: row, Col: col}
	cell, ok := p.cells[addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCellNotFound, addr)
	}

	first := firstDescendant(cell, tagParagraph)
	container := firstChild(cell, tagSubList)
	if first != nil {
		container = first.Parent()
	}
	if container == nil {
		return fmt.Errorf("%w: %s has no paragraph list", ErrCellNotFound, addr)
	}

	var model *etree.Element
	switch {
	case style != nil:
		model = style.Copy()
	case first != nil:
		model = first.Copy()
	default:
		return fmt.Errorf("%w: %s has no paragraph to clone", ErrCellNotFound, addr)
	}
	removeAll(model, tagLineSegs)

	for len(container.Child) > 0 {
		container.RemoveChildAt(0)
	}

	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		for _, t := range descendants(model, tagText) {
			setText(t, "")
		}
		container.AddChild(model)
		return nil
	}

	for _, line := range lines {
		para := model.Copy()
		props := firstDescendant(para, tagParaProps)
		if props == nil {
			props = etree.NewElement(tagParaProps)
			para.InsertChildAt(0, props)
		}
		props.CreateAttr("lineSpacing", lineSpacing)
		props.CreateAttr("lineSpacingType", lineSpacingType)

		texts := descendants(para, tagText)
		if len(texts) == 0 {
			run := firstDescendant(para, tagRun)
			if run == nil {
				run = para.CreateElement(tagRun)
			}
			texts = []*etree.Element{run.CreateElement(tagText)}
		}
		setText(texts[0], norm.NFC.String(line))
		for _, extra := range texts[1:] {
			setText(extra, "")
		}
		container.AddChild(para)
	}
	return nil
}

// CellText returns the cell's paragraphs joined with "\n".
func (p *Package) CellText(row, col int) (string, error) {
	addr := Address{Row: row, Col: col}
	cell, ok := p.cells[addr]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCellNotFound, addr)
	}
	var lines []string
	for _, para := range descendants(cell, tagParagraph) {
		var b strings.Builder
		for _, t := range descendants(para, tagText) {
			b.WriteString(textOf(t))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n"), nil
}

// Bytes re-serialises the archive with the patched section. Entry order and
// every untouched entry, including the stored mimetype, are copied as is.
func (p *Package) Bytes() ([]byte, error) {
	section, err := p.section.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialise %s: %w", SectionPath, err)
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	for _, file := range p.archive.File {
		if file.Name != SectionPath {
			if err := writer.Copy(file); err != nil {
				return nil, fmt.Errorf("copy %s: %w", file.Name, err)
			}
			continue
		}
		header := file.FileHeader
		part, err := writer.CreateHeader(&zip.FileHeader{
			Name:     header.Name,
			Method:   header.Method,
			Modified: header.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", SectionPath, err)
		}
		if _, err := part.Write(section); err != nil {
			return nil, fmt.Errorf("write %s: %w", SectionPath, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish hwpx archive: %w", err)
	}
	return out.Bytes(), nil
}

func firstChild(el *etree.Element, fullTag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.FullTag() == fullTag {
			return child
		}
	}
	return nil
}

func removeAll(el *etree.Element, fullTag string) {
	for _, child := range el.ChildElements() {
		if child.FullTag() == fullTag {
			el.RemoveChild(child)
			continue
		}
		removeAll(child, fullTag)
	}
}

// textOf concatenates all character data below el.
func textOf(el *etree.Element) string {
	var b strings.Builder
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString(textOf(t))
		}
	}
	return b.String()
}

// setText replaces everything inside el with a single text node.
func setText(el *etree.Element, text string) {
	for len(el.Child) > 0 {
		el.RemoveChildAt(0)
	}
	el.SetText(text)
}
