package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Well-known column headers of the P&L sheet.
const (
	ColumnParticulars = "PARTICULARS"
	ColumnBranch      = "Branch"
)

type (
	// Cell is one value of a statement row. Numeric cells carry their value in
	// Value; Text always holds the literal the source produced.
	Cell struct {
		Text    string
		Value   decimal.Decimal
		Numeric bool
	}

	// StatementRow is a single line item. Labels are not unique; a row is
	// identified by its position in the table.
	StatementRow struct {
		Label string
		Cells []Cell
	}

	// Table is the visible statement: canonical column labels plus rows whose
	// Cells align with Columns.
	Table struct {
		Columns []string
		Rows    []StatementRow
	}
)

// NewCell parses a raw cell literal. Thousands separators are tolerated so
// values exported as "1,23,456" still parse as numbers.
func NewCell(raw string) Cell {
	text := strings.TrimSpace(raw)
	c := Cell{Text: text}
	if text == "" {
		return c
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(text, ",", "")); err == nil {
		c.Value = d
		c.Numeric = true
	}
	return c
}

// NumberCell builds a numeric cell from a float read off a typed source.
func NumberCell(v float64) Cell {
	d := decimal.NewFromFloat(v)
	return Cell{Text: d.String(), Value: d, Numeric: true}
}

// IsBlank reports whether the cell carries nothing to display.
func (c Cell) IsBlank() bool {
	return !c.Numeric && c.Text == ""
}

// Labels returns the row labels in order.
func (t Table) Labels() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Label
	}
	return out
}

// ColumnIndex returns the position of the column whose label equals name
// (case-insensitive, trimmed), or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// RowIndex returns the first row whose label equals name (case-insensitive,
// trimmed), or -1.
func (t Table) RowIndex(name string) int {
	for i, r := range t.Rows {
		if NormalizeLabel(r.Label) == NormalizeLabel(name) {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col) or a blank cell when out of range.
func (t Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) {
		return Cell{}
	}
	cells := t.Rows[row].Cells
	if col < 0 || col >= len(cells) {
		return Cell{}
	}
	return cells[col]
}

// NormalizeLabel is the comparison form of a row label: trimmed, lower case.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsTextColumn reports whether a column holds labels rather than amounts.
func IsTextColumn(label string) bool {
	l := strings.TrimSpace(label)
	return strings.EqualFold(l, ColumnParticulars) || strings.EqualFold(l, ColumnBranch)
}

// IsPercentColumn reports whether a column carries ratios rather than amounts.
func IsPercentColumn(label string) bool {
	return strings.Contains(label, "%")
}
