package render

import (
	"pnlboard/internal/classify"
	"pnlboard/internal/core"
	"pnlboard/internal/format"
)

// Display returns the text shown for a cell under the given format.
// Non-numeric cells show their literal.
func Display(c core.Cell, f classify.NumberFormat) string {
	if !c.Numeric || f == classify.FormatText {
		return c.Text
	}
	if f == classify.FormatPercent {
		return format.Percent(c.Value)
	}
	return format.Indian(c.Value)
}

// CellText is Display for the cell at (row, col) of the view.
func (v View) CellText(row, col int) string {
	return Display(v.Table.Cell(row, col), v.Formats.At(row, col))
}

// Remark returns the remark attached to (row, col), if any.
func (v View) Remark(row, col int) (string, bool) {
	if row < 0 || row >= len(v.Table.Rows) || col < 0 || col >= len(v.Table.Columns) {
		return "", false
	}
	if core.IsTextColumn(v.Table.Columns[col]) {
		return "", false
	}
	return v.Remarks.Get(v.Table.Rows[row].Label, v.Table.Columns[col])
}
