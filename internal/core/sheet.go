package core

// CellRef is a zero-based (row, column) position inside a Sheet.
type CellRef struct {
	Row int
	Col int
}

// Sheet is the raw extraction of one worksheet as delivered by a workbook
// source, before projection. Rows[0] is expected to be the header row.
type Sheet struct {
	Name       string
	Rows       [][]string
	HiddenRows []bool
	HiddenCols []bool
	// Notes are sheet-native cell comments.
	Notes map[CellRef]string
}

// Width is the number of columns of the widest row.
func (s Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Value returns the literal at (row, col) or "" when out of range.
func (s Sheet) Value(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	if col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return s.Rows[row][col]
}

// VisibleRows returns one flag per sheet row, true unless the row is hidden.
func (s Sheet) VisibleRows() []bool {
	return visibleMask(len(s.Rows), s.HiddenRows)
}

// VisibleCols returns one flag per sheet column, true unless hidden.
func (s Sheet) VisibleCols() []bool {
	return visibleMask(s.Width(), s.HiddenCols)
}

func visibleMask(n int, hidden []bool) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = i >= len(hidden) || !hidden[i]
	}
	return out
}
