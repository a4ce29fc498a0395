package classify

import "testing"

func TestPlanFormatsColumns(t *testing.T) {
	plan := PlanFormats(nil, []string{"PARTICULARS", "Jul-25", "%", "Branch", "Aug-25 %"})
	want := []NumberFormat{FormatText, FormatCurrency, FormatPercent, FormatText, FormatPercent}
	for i, w := range want {
		if got := plan.Column(i); got != w {
			t.Fatalf("column %d: got %v, want %v", i, got, w)
		}
	}
	if got := plan.Column(99); got != FormatText {
		t.Fatalf("out of range column should be text, got %v", got)
	}
}

// The net profit / taxes carve-out is a business rule tied to the statement
// template. If the template changes this is the first thing to drift.
func TestNetProfitTaxesException(t *testing.T) {
	labels := []string{
		"NET SALE",         // 0
		"NET PROFIT",       // 1
		"DEPRECIATION",     // 2
		"INTEREST",         // 3
		"TAXES",            // 4
		"PROFIT AFTER TAX", // 5
	}
	columns := []string{"PARTICULARS", "Jul-25", "%"}
	plan := PlanFormats(labels, columns)

	cases := []struct {
		row, col int
		want     NumberFormat
	}{
		{0, 2, FormatPercent},
		{1, 2, FormatPercent},
		{2, 2, FormatCurrency},
		{3, 2, FormatCurrency},
		{4, 2, FormatPercent},
		{5, 2, FormatPercent},
		{2, 1, FormatCurrency},
		{2, 0, FormatText},
	}
	for i, tc := range cases {
		if got := plan.At(tc.row, tc.col); got != tc.want {
			t.Fatalf("case %d (%d,%d): got %v, want %v", i, tc.row, tc.col, got, tc.want)
		}
	}
}

func TestLandmarksMatchByPrefix(t *testing.T) {
	labels := []string{"TAXES PAID", "Net Profit Before Tax", "x", "Taxes (current)"}
	plan := PlanFormats(labels, []string{"PARTICULARS", "%"})
	if plan.At(0, 1) != FormatPercent {
		t.Fatalf("taxes before net profit must not count")
	}
	if plan.At(2, 1) != FormatCurrency {
		t.Fatalf("row between landmarks should be currency")
	}
}

func TestMissingLandmarkDisablesException(t *testing.T) {
	cases := [][]string{
		{"NET PROFIT", "a", "b"},
		{"a", "TAXES", "b"},
		{"TAXES", "a", "NET PROFIT", "b"},
		{},
	}
	for i, labels := range cases {
		plan := PlanFormats(labels, []string{"PARTICULARS", "%"})
		for row := range labels {
			if got := plan.At(row, 1); got != FormatPercent {
				t.Fatalf("case %d row %d: got %v, want percent", i, row, got)
			}
		}
	}
}

func TestAdjacentLandmarksLeaveNoException(t *testing.T) {
	plan := PlanFormats([]string{"NET PROFIT", "TAXES"}, []string{"PARTICULARS", "%"})
	if plan.InException(0) || plan.InException(1) {
		t.Fatalf("landmark rows themselves are never in the exception")
	}
}
