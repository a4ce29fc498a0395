package core

import (
	"testing"
	"time"
)

func TestNewCell(t *testing.T) {
	cases := []struct {
		raw     string
		numeric bool
		value   string
	}{
		{"1234.5", true, "1234.5"},
		{" 1,23,456 ", true, "123456"},
		{"-42", true, "-42"},
		{"", false, "0"},
		{"FOOD SALES", false, "0"},
		{"12a", false, "0"},
	}
	for i, tc := range cases {
		c := NewCell(tc.raw)
		if c.Numeric != tc.numeric {
			t.Fatalf("case %d (%q): numeric=%v, want %v", i, tc.raw, c.Numeric, tc.numeric)
		}
		if c.Value.String() != tc.value {
			t.Fatalf("case %d (%q): value=%s, want %s", i, tc.raw, c.Value.String(), tc.value)
		}
	}
	if !NewCell("  ").IsBlank() {
		t.Fatalf("whitespace cell should be blank")
	}
}

func TestCanonicalColumn(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Jul-25", "Jul-25"},
		{"JUL-25", "Jul-25"},
		{"2025-07-01 00:00:00", "Jul-25"},
		{"2025-07-01T00:00:00", "Jul-25"},
		{"2025-07-01", "Jul-25"},
		{"2025-07", "Jul-25"},
		{"July 2025", "Jul-25"},
		{"07/01/2025", "Jul-25"},
		{"PARTICULARS", "PARTICULARS"},
		{" % ", "%"},
		{"Branch", "Branch"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CanonicalColumn(tc.in); got != tc.want {
			t.Errorf("CanonicalColumn(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalColumnIsIdempotent(t *testing.T) {
	for _, in := range []string{"2025-04-01 00:00:00", "Apr-25", "%", "PARTICULARS"} {
		once := CanonicalColumn(in)
		if twice := CanonicalColumn(once); twice != once {
			t.Fatalf("CanonicalColumn not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestCellKeyNormalizeCollapsesMonthForms(t *testing.T) {
	raw := CellKey{Row: "FOOD SALES ", Column: "2025-07-01 00:00:00"}.Normalize()
	pretty := CellKey{Row: "FOOD SALES", Column: "Jul-25"}.Normalize()
	if raw != pretty {
		t.Fatalf("keys differ: %v vs %v", raw, pretty)
	}
	if raw.String() != "FOOD SALES|Jul-25" {
		t.Fatalf("unexpected key string %q", raw.String())
	}
}

func TestParseCellKey(t *testing.T) {
	k, ok := ParseCellKey("LESS: DISCOUNT|A|2025-08-01")
	if !ok {
		t.Fatalf("expected key to parse")
	}
	if k.Row != "LESS: DISCOUNT|A" || k.Column != "Aug-25" {
		t.Fatalf("unexpected key %+v", k)
	}
	for _, bad := range []string{"", "|Jul-25", "FOOD SALES|", "no separator"} {
		if _, ok := ParseCellKey(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestLatestMonth(t *testing.T) {
	cols := []string{"PARTICULARS", "Apr-25", "%", "Jul-25", "May-25", "Jan-24"}
	label, when, ok := LatestMonth(cols)
	if !ok || label != "Jul-25" {
		t.Fatalf("LatestMonth = %q, %v", label, ok)
	}
	if when.Month() != time.July || when.Year() != 2025 {
		t.Fatalf("unexpected time %v", when)
	}
	if _, _, ok := LatestMonth([]string{"PARTICULARS", "%"}); ok {
		t.Fatalf("expected no month")
	}
}

func TestSheetVisibleMasks(t *testing.T) {
	s := Sheet{
		Rows:       [][]string{{"PARTICULARS", "Jul-25", "Aug-25"}, {"A", "1"}},
		HiddenRows: []bool{false, true},
		HiddenCols: []bool{false, true},
	}
	rows := s.VisibleRows()
	if len(rows) != 2 || !rows[0] || rows[1] {
		t.Fatalf("rows mask %v", rows)
	}
	cols := s.VisibleCols()
	if len(cols) != 3 || !cols[0] || cols[1] || !cols[2] {
		t.Fatalf("cols mask %v", cols)
	}
}
