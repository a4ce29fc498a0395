package services

import (
	"pnlboard/internal/core"
	"pnlboard/internal/format"
)

// KPI is one headline figure of the latest month.
type KPI struct {
	Label string
	Value string
}

// kpiRows pairs each tile title with the statement row it reads.
var kpiRows = []struct {
	title string
	row   string
}{
	{"Total Sales and Service Charge", "total sales and service charges"},
	{"Net Food Cost", "net food cost"},
	{"Net Drink Cost", "net drink cost"},
	{"Gross Profit", "gross profit"},
	{"Total Non Operating Cost", "total non operating cost"},
	{"Net Profit", "net profit"},
}

const kpiMissing = "-"

// KPIs returns the headline tiles for the latest month column, and that
// month's label. Missing rows and zero amounts show as "-". With no month
// column every tile is "-" and the label is empty.
func KPIs(tbl core.Table) (string, []KPI) {
	month, _, ok := core.LatestMonth(tbl.Columns)
	col := -1
	if ok {
		col = tbl.ColumnIndex(month)
	}

	tiles := make([]KPI, len(kpiRows))
	for i, k := range kpiRows {
		tiles[i] = KPI{Label: k.title, Value: kpiMissing}
		if col < 0 {
			continue
		}
		cell := tbl.Cell(tbl.RowIndex(k.row), col)
		if cell.Numeric && !cell.Value.IsZero() {
			tiles[i].Value = format.Indian(cell.Value)
		}
	}
	return month, tiles
}
