// Package projection derives the visible statement from a raw sheet.
package projection

import (
	"errors"
	"strings"

	"pnlboard/internal/core"
)

// ErrNoParticulars is returned when no header row names a PARTICULARS column.
var ErrNoParticulars = errors.New("projection: no PARTICULARS header found")

// Project keeps the columns and rows whose mask entry is true, in their
// original relative order. Entries beyond the end of a mask are dropped.
func Project(full core.Table, visibleCols, visibleRows []bool) core.Table {
	keepCols := make([]int, 0, len(full.Columns))
	for i := range full.Columns {
		if i < len(visibleCols) && visibleCols[i] {
			keepCols = append(keepCols, i)
		}
	}

	out := core.Table{Columns: make([]string, len(keepCols))}
	for j, i := range keepCols {
		out.Columns[j] = full.Columns[i]
	}

	for r, row := range full.Rows {
		if r >= len(visibleRows) || !visibleRows[r] {
			continue
		}
		cells := make([]core.Cell, len(keepCols))
		for j, i := range keepCols {
			if i < len(row.Cells) {
				cells[j] = row.Cells[i]
			}
		}
		out.Rows = append(out.Rows, core.StatementRow{Label: row.Label, Cells: cells})
	}
	return out
}

// FromSheet builds the visible table from a raw sheet. The header row is the
// first row holding a PARTICULARS cell; headers are canonicalized and rows
// above the header are ignored. Body rows with an empty label are skipped.
func FromSheet(sheet core.Sheet) (core.Table, error) {
	header, labelCol := findHeader(sheet)
	if header < 0 {
		return core.Table{}, ErrNoParticulars
	}

	width := sheet.Width()
	full := core.Table{Columns: make([]string, width)}
	for c := 0; c < width; c++ {
		full.Columns[c] = core.CanonicalColumn(sheet.Value(header, c))
	}

	sheetRows := sheet.VisibleRows()
	var rowMask []bool
	for r := header + 1; r < len(sheet.Rows); r++ {
		label := strings.TrimSpace(sheet.Value(r, labelCol))
		if label == "" {
			continue
		}
		cells := make([]core.Cell, width)
		for c := 0; c < width; c++ {
			if c == labelCol {
				cells[c] = core.Cell{Text: label}
				continue
			}
			cells[c] = cellFor(full.Columns[c], sheet.Value(r, c))
		}
		full.Rows = append(full.Rows, core.StatementRow{Label: label, Cells: cells})
		rowMask = append(rowMask, sheetRows[r])
	}

	colMask := sheet.VisibleCols()
	for c, name := range full.Columns {
		// Columns with no header carry no data worth showing.
		if name == "" {
			colMask[c] = false
		}
	}

	return Project(full, colMask, rowMask), nil
}

func findHeader(sheet core.Sheet) (row, col int) {
	for r, cells := range sheet.Rows {
		for c, v := range cells {
			if strings.EqualFold(strings.TrimSpace(v), core.ColumnParticulars) {
				return r, c
			}
		}
	}
	return -1, -1
}

func cellFor(column, raw string) core.Cell {
	if core.IsTextColumn(column) {
		return core.Cell{Text: strings.TrimSpace(raw)}
	}
	return core.NewCell(raw)
}

// Notes keys the sheet's cell notes by (row label, canonical column). Notes
// on the header, on the label column or on unlabeled rows are dropped. When a
// label repeats, the note on the first such row wins.
func Notes(sheet core.Sheet) map[core.CellKey]string {
	out := map[core.CellKey]string{}
	header, labelCol := findHeader(sheet)
	if header < 0 || len(sheet.Notes) == 0 {
		return out
	}
	width := sheet.Width()
	for r := header + 1; r < len(sheet.Rows); r++ {
		for c := 0; c < width; c++ {
			text, ok := sheet.Notes[core.CellRef{Row: r, Col: c}]
			if !ok || c == labelCol || strings.TrimSpace(text) == "" {
				continue
			}
			key := core.CellKey{Row: sheet.Value(r, labelCol), Column: sheet.Value(header, c)}.Normalize()
			if key.IsZero() {
				continue
			}
			if _, seen := out[key]; !seen {
				out[key] = strings.TrimSpace(text)
			}
		}
	}
	return out
}
