// Package excel reads the statement sheet from a local .xlsx workbook.
package excel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pnlboard/internal/core"
	"pnlboard/internal/workbook"
)

// Reader opens the workbook on every Read so edits on disk are picked up.
type Reader struct {
	path  string
	sheet string
}

var _ workbook.Source = (*Reader)(nil)

func NewReader(path, sheet string) *Reader {
	return &Reader{path: path, sheet: sheet}
}

func (r *Reader) Describe() string {
	return fmt.Sprintf("%s [%s]", r.path, r.sheet)
}

func (r *Reader) Read(ctx context.Context) (core.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return core.Sheet{}, err
	}
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return core.Sheet{}, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	sheet, err := Extract(f, r.sheet)
	if err != nil {
		return core.Sheet{}, err
	}
	slog.DebugContext(ctx, "Workbook sheet read",
		"path", r.path,
		"sheet", sheet.Name,
		"rows", len(sheet.Rows),
		"notes", len(sheet.Notes))
	return sheet, nil
}

// ReadFrom extracts the sheet from an in-memory workbook.
func ReadFrom(rd io.Reader, sheet string) (core.Sheet, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return core.Sheet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return Extract(f, sheet)
}

// Extract reads one sheet of an open workbook: raw cell values, month
// headers stored as date serials rewritten to "Mon-YY", hidden rows and
// columns, and cell comments.
func Extract(f *excelize.File, name string) (core.Sheet, error) {
	name, err := resolveSheet(f, name)
	if err != nil {
		return core.Sheet{}, err
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return core.Sheet{}, fmt.Errorf("read rows of %q: %w", name, err)
	}
	shown, err := f.GetRows(name)
	if err != nil {
		return core.Sheet{}, fmt.Errorf("read formatted rows of %q: %w", name, err)
	}

	sheet := core.Sheet{Name: name, Rows: raw}
	for r, row := range raw {
		if !isHeaderRow(row) {
			continue
		}
		for c, v := range row {
			row[c] = headerLabel(v, cellAt(shown, r, c))
		}
	}

	sheet.HiddenRows = make([]bool, len(raw))
	for r := range raw {
		visible, err := f.GetRowVisible(name, r+1)
		if err != nil {
			return core.Sheet{}, fmt.Errorf("row %d visibility: %w", r+1, err)
		}
		sheet.HiddenRows[r] = !visible
	}

	width := sheet.Width()
	sheet.HiddenCols = make([]bool, width)
	for c := 0; c < width; c++ {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return core.Sheet{}, err
		}
		visible, err := f.GetColVisible(name, col)
		if err != nil {
			return core.Sheet{}, fmt.Errorf("column %s visibility: %w", col, err)
		}
		sheet.HiddenCols[c] = !visible
	}

	notes, err := readNotes(f, name)
	if err != nil {
		return core.Sheet{}, err
	}
	sheet.Notes = notes
	return sheet, nil
}

func resolveSheet(f *excelize.File, name string) (string, error) {
	for _, s := range f.GetSheetList() {
		if s == name {
			return s, nil
		}
	}
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", workbook.ErrSheetNotFound, name)
}

func isHeaderRow(row []string) bool {
	for _, v := range row {
		if strings.EqualFold(strings.TrimSpace(v), core.ColumnParticulars) {
			return true
		}
	}
	return false
}

// headerLabel turns a header cell into a column label. A numeric raw value
// whose display differs is a date serial formatted as a date.
func headerLabel(raw, shown string) string {
	if raw == shown {
		return raw
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return shown
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return shown
	}
	return core.MonthLabel(t)
}

func cellAt(rows [][]string, r, c int) string {
	if r < len(rows) && c < len(rows[r]) {
		return rows[r][c]
	}
	return ""
}

func readNotes(f *excelize.File, sheet string) (map[core.CellRef]string, error) {
	comments, err := f.GetComments(sheet)
	if err != nil {
		return nil, fmt.Errorf("read comments of %q: %w", sheet, err)
	}
	notes := make(map[core.CellRef]string, len(comments))
	for _, cm := range comments {
		col, row, err := excelize.CellNameToCoordinates(cm.Cell)
		if err != nil {
			continue
		}
		text := cm.Text
		for _, run := range cm.Paragraph {
			text += run.Text
		}
		text = strings.TrimSpace(stripAuthor(text, cm.Author))
		if text == "" {
			continue
		}
		notes[core.CellRef{Row: row - 1, Col: col - 1}] = text
	}
	return notes, nil
}

// stripAuthor drops the "Author:" prefix spreadsheet apps put in front of
// comment bodies.
func stripAuthor(text, author string) string {
	if author == "" {
		return text
	}
	return strings.TrimPrefix(text, author+":")
}
