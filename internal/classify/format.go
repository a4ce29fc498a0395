package classify

import (
	"strings"

	"pnlboard/internal/core"
)

// NumberFormat is how the cells of a (row, column) pair are displayed.
type NumberFormat int

const (
	// FormatText is used for label columns such as PARTICULARS.
	FormatText NumberFormat = iota
	// FormatCurrency is grouped whole-number currency.
	FormatCurrency
	// FormatPercent displays ratios as percentages.
	FormatPercent
)

func (f NumberFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatCurrency:
		return "currency"
	case FormatPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// Landmark label prefixes bounding the currency exception.
const (
	netProfitPrefix = "net profit"
	taxesPrefix     = "taxes"
)

// FormatPlan is the numeric-format decision for one statement.
type FormatPlan struct {
	columns []NumberFormat
	// Rows strictly between these two indices render percent columns as
	// currency. Both are -1 when a landmark is missing.
	netProfit int
	taxes     int
}

// PlanFormats computes the format plan once per statement. Column labels
// are expected to be canonical.
func PlanFormats(labels, columns []string) FormatPlan {
	plan := FormatPlan{
		columns:   make([]NumberFormat, len(columns)),
		netProfit: -1,
		taxes:     -1,
	}
	for i, c := range columns {
		switch {
		case core.IsTextColumn(c):
			plan.columns[i] = FormatText
		case core.IsPercentColumn(c):
			plan.columns[i] = FormatPercent
		default:
			plan.columns[i] = FormatCurrency
		}
	}

	np := -1
	for i, l := range labels {
		if strings.HasPrefix(core.NormalizeLabel(l), netProfitPrefix) {
			np = i
			break
		}
	}
	if np < 0 {
		return plan
	}
	for i := np + 1; i < len(labels); i++ {
		if strings.HasPrefix(core.NormalizeLabel(labels[i]), taxesPrefix) {
			plan.netProfit, plan.taxes = np, i
			break
		}
	}
	return plan
}

// Column returns the base format of a column, ignoring the row exception.
func (p FormatPlan) Column(col int) NumberFormat {
	if col < 0 || col >= len(p.columns) {
		return FormatText
	}
	return p.columns[col]
}

// InException reports whether row lies strictly between the net profit and
// taxes landmarks.
func (p FormatPlan) InException(row int) bool {
	return p.netProfit >= 0 && row > p.netProfit && row < p.taxes
}

// At returns the format for the cell at (row, col).
func (p FormatPlan) At(row, col int) NumberFormat {
	f := p.Column(col)
	if f == FormatPercent && p.InException(row) {
		return FormatCurrency
	}
	return f
}
