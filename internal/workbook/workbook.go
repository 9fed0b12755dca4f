// Package workbook reads XML Spreadsheet 2003 files (the *.xml format
// Excel saves as "XML Spreadsheet 2003").
//
// Each sheet is a table whose first row holds the column titles. Column 0
// is synthetic and carries the row number, under the title "#". Rows and
// cells may skip positions with ss:Index; skipped cells read as "". A fully
// blank row ends the table: every row after it must be blank too, and the
// trailing blank rows are dropped.
package workbook

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/axekit/axe/internal/xmlutil"
)

const (
	// Namespace of the spreadsheet elements and ss: attributes.
	Namespace = "urn:schemas-microsoft-com:office:spreadsheet"

	// RowNumberTitle is the title of column 0.
	RowNumberTitle = "#"

	// DefaultDisableTag marks rows to skip when it appears in the column of
	// the same title.
	DefaultDisableTag = "<%%下架%%>"

	titleRow = 1
)

type Options struct {
	// DisableTag overrides DefaultDisableTag.
	DisableTag string
}

type Book struct {
	Sheets []*Sheet
}

// Sheet returns the sheet called name.
func (b *Book) Sheet(name string) (*Sheet, bool) {
	for _, s := range b.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

type Sheet struct {
	Name string
	// Titles excludes the row number column.
	Titles []string
	// Rows excludes the title row and disabled rows.
	Rows []*Row

	columns map[string]int
}

type Row struct {
	Number int
	cells  []string
	sheet  *Sheet
}

// Get returns the cell under title. RowNumberTitle yields the row number.
func (r *Row) Get(title string) (string, error) {
	i, ok := r.sheet.columns[title]
	if !ok {
		return "", &InvalidColumnError{Sheet: r.sheet.Name, Title: title}
	}
	if i == 0 {
		return strconv.Itoa(r.Number), nil
	}
	return r.cells[i], nil
}

// Cells returns the data cells in title order.
func (r *Row) Cells() []string {
	return r.cells[1 : len(r.sheet.Titles)+1]
}

// Find returns the first row whose title column equals value, or nil.
func (s *Sheet) Find(title, value string) (*Row, error) {
	if _, ok := s.columns[title]; !ok {
		return nil, &InvalidColumnError{Sheet: s.Name, Title: title}
	}
	for _, r := range s.Rows {
		v, _ := r.Get(title)
		if v == value {
			return r, nil
		}
	}
	return nil, nil
}

// UniqueCheck fails on the first two rows sharing a value in the title
// column. Rows holding one of skip are ignored.
func (s *Sheet) UniqueCheck(title string, skip ...string) error {
	if _, ok := s.columns[title]; !ok {
		return &InvalidColumnError{Sheet: s.Name, Title: title}
	}
	seen := map[string]*Row{}
	for _, r := range s.Rows {
		v, _ := r.Get(title)
		if contains(skip, v) {
			continue
		}
		if prev, ok := seen[v]; ok {
			return &UniqueCheckError{Sheet: s.Name, Title: title, Row1: prev.Number, Row2: r.Number, Value: v}
		}
		seen[v] = r
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func ReadFile(path string, opts Options) (*Book, error) {
	root, err := xmlutil.LoadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := readBook(root, opts)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return b, nil
}

// Read parses a workbook from r, such as standard input.
func Read(r io.Reader, opts Options) (*Book, error) {
	root, err := xmlutil.Load(r)
	if err != nil {
		return nil, err
	}
	return readBook(root, opts)
}

func readBook(root *etree.Element, opts Options) (*Book, error) {
	if opts.DisableTag == "" {
		opts.DisableTag = DefaultDisableTag
	}
	if ns := xmlutil.Namespace(root); ns != "{"+Namespace+"}" {
		return nil, fmt.Errorf("root element %s%s is not a spreadsheet workbook", ns, root.Tag)
	}
	book := &Book{}
	for i, node := range xmlutil.Children(root, Namespace, "Worksheet") {
		name, ok := xmlutil.Attr(node, Namespace, "Name")
		if !ok {
			return nil, fmt.Errorf("sheet #%d: missing ss:Name", i+1)
		}
		sheet, err := parseSheet(node, name, opts)
		if err != nil {
			return nil, fmt.Errorf("sheet '%s': %w", name, err)
		}
		book.Sheets = append(book.Sheets, sheet)
	}
	return book, nil
}

// index reads the ss:Index of e, defaulting to prev+1.
func index(e *etree.Element, prev int) (int, error) {
	next := prev + 1
	n, err := xmlutil.AttrValue(e, Namespace, "Index", strconv.Atoi, &next)
	if err != nil {
		v, _ := xmlutil.Attr(e, Namespace, "Index")
		return 0, fmt.Errorf("invalid ss:Index %q", v)
	}
	return n, nil
}

func parseSheet(node *etree.Element, name string, opts Options) (*Sheet, error) {
	tables := xmlutil.Children(node, Namespace, "Table")
	if len(tables) == 0 {
		return nil, fmt.Errorf("missing Table element")
	}

	type rawRow struct {
		number int
		cells  []string
	}
	var rows []rawRow

	lastRow, rowIdx := 0, 0
	blankRow := 0 // first blank row number, 0 while none seen
	for _, rowNode := range xmlutil.Children(tables[0], Namespace, "Row") {
		var err error
		rowIdx, err = index(rowNode, rowIdx)
		if err != nil {
			return nil, fmt.Errorf("row after %d: %w", lastRow, err)
		}
		if rowIdx < lastRow+1 {
			return nil, fmt.Errorf("row index %d must be greater than %d", rowIdx, lastRow)
		}
		if rowIdx > lastRow+1 && blankRow == 0 {
			blankRow = rowIdx - 1
		}

		cells := []string{""}
		lastCell, cellIdx := 0, 0
		blank := true
		for _, cellNode := range xmlutil.Children(rowNode, Namespace, "Cell") {
			cellIdx, err = index(cellNode, cellIdx)
			if err != nil {
				return nil, fmt.Errorf("row %d, cell after %d: %w", rowIdx, lastCell, err)
			}
			if cellIdx < lastCell+1 {
				return nil, fmt.Errorf("row %d, column %d: invalid cell index", rowIdx, cellIdx)
			}
			for i := lastCell + 1; i < cellIdx; i++ {
				if rowIdx == titleRow {
					return nil, fmt.Errorf("row %d, column %d: title row cannot contain empty columns", rowIdx, i)
				}
				cells = append(cells, "")
			}
			lastCell = cellIdx

			text := ""
			if data := xmlutil.Children(cellNode, Namespace, "Data"); len(data) > 0 {
				text = xmlutil.Text(data[0])
			}
			if text != "" {
				blank = false
			}
			cells = append(cells, text)
		}

		switch {
		case blankRow > 0:
			if !blank {
				return nil, fmt.Errorf("row %d cannot be blank", blankRow)
			}
		case blank:
			blankRow = rowIdx
		default:
			rows = append(rows, rawRow{number: rowIdx, cells: cells})
		}
		lastRow = rowIdx
	}

	if len(rows) == 0 || rows[0].number != titleRow {
		return nil, fmt.Errorf("title row (row %d) must exist", titleRow)
	}

	title := rows[0].cells
	title[0] = RowNumberTitle
	sheet := &Sheet{
		Name:    name,
		Titles:  title[1:],
		columns: make(map[string]int, len(title)),
	}
	for i, t := range title {
		sheet.columns[t] = i
	}
	disableCol, hasDisable := sheet.columns[opts.DisableTag]
	for _, rr := range rows[1:] {
		for len(rr.cells) < len(title) {
			rr.cells = append(rr.cells, "")
		}
		if hasDisable && rr.cells[disableCol] == opts.DisableTag {
			continue
		}
		sheet.Rows = append(sheet.Rows, &Row{Number: rr.number, cells: rr.cells, sheet: sheet})
	}
	return sheet, nil
}
