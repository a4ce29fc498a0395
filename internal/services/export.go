package services

import (
	"bytes"
	"fmt"

	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
	"pnlboard/internal/render"
	"pnlboard/internal/render/xlsx"
)

const fallbackExportName = "pnl_table.xlsx"

// ExportFilename names the download after the latest month column, e.g.
// "P&L_Jul-25.xlsx".
func ExportFilename(columns []string) string {
	_, month, ok := core.LatestMonth(columns)
	if !ok {
		return fallbackExportName
	}
	return "P&L_" + core.MonthLabel(month) + ".xlsx"
}

// Export renders the styled workbook for a statement and its remarks.
func Export(st *Statement, lookup remarks.Lookup) (*bytes.Buffer, string, error) {
	if st == nil {
		return nil, "", fmt.Errorf("export: no statement loaded")
	}
	buf, err := xlsx.Write(render.NewView(st.Table, lookup))
	if err != nil {
		return nil, "", fmt.Errorf("export statement: %w", err)
	}
	return buf, ExportFilename(st.Table.Columns), nil
}
