package core

import "strings"

// keySeparator joins the two halves of a persisted remark key ("ROW|Mon-YY").
const keySeparator = "|"

// CellKey identifies a (row label, column label) cell for remarks.
type CellKey struct {
	Row    string
	Column string
}

// Normalize returns the key in canonical form: trimmed row label and the
// canonical column label.
func (k CellKey) Normalize() CellKey {
	return CellKey{
		Row:    strings.TrimSpace(k.Row),
		Column: CanonicalColumn(k.Column),
	}
}

// IsZero reports whether either half of the key is missing.
func (k CellKey) IsZero() bool {
	return strings.TrimSpace(k.Row) == "" || strings.TrimSpace(k.Column) == ""
}

func (k CellKey) String() string {
	return k.Row + keySeparator + k.Column
}

// ParseCellKey splits a "ROW|COLUMN" string. The split happens at the last
// separator since row labels may themselves contain one.
func ParseCellKey(s string) (CellKey, bool) {
	i := strings.LastIndex(s, keySeparator)
	if i <= 0 || i == len(s)-1 {
		return CellKey{}, false
	}
	return CellKey{Row: s[:i], Column: s[i+1:]}.Normalize(), true
}
