package core

import (
	"strings"
	"time"
)

// MonthLayout is the canonical month label form, e.g. "Jul-25".
const MonthLayout = "Jan-06"

// monthLayouts are the header shapes seen in exported statements: canonical
// labels, pandas/openpyxl timestamps, ISO dates and a few spreadsheet
// display formats.
var monthLayouts = []string{
	MonthLayout,
	"Jan-2006",
	"January-06",
	"January-2006",
	"Jan 06",
	"Jan 2006",
	"January 2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1-2-06",
}

// MonthLabel formats t as a canonical month label.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseMonth parses a column header as a month. The boolean is false when
// the header is not a recognizable date.
func ParseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CanonicalColumn rewrites a column label to its canonical form: month
// headers become "Mon-YY", anything else passes through trimmed. This is the
// only canonicalization used for column identity, so stored remarks, table
// headers and tooltip lookups always agree.
func CanonicalColumn(s string) string {
	if t, ok := ParseMonth(s); ok {
		return MonthLabel(t)
	}
	return strings.TrimSpace(s)
}

// LatestMonth returns the most recent month among the given column labels.
func LatestMonth(columns []string) (string, time.Time, bool) {
	var (
		best  time.Time
		label string
		found bool
	)
	for _, c := range columns {
		if IsTextColumn(c) || IsPercentColumn(c) {
			continue
		}
		t, ok := ParseMonth(c)
		if !ok {
			continue
		}
		if !found || t.After(best) {
			best, label, found = t, c, true
		}
	}
	return label, best, found
}
