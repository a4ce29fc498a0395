package google

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	gsheet "google.golang.org/api/sheets/v4"

	"pnlboard/internal/core"
)

// parseGrid converts the grid data of one sheet into a core.Sheet. Numbers
// keep full precision, DATE/DATE_TIME header cells become "Mon-YY", and
// cell notes are collected.
func parseGrid(s *gsheet.Sheet) core.Sheet {
	out := core.Sheet{Notes: map[core.CellRef]string{}}
	if s == nil {
		return out
	}
	if s.Properties != nil {
		out.Name = s.Properties.Title
	}

	// The request names a single range, so only the first grid matters.
	if len(s.Data) == 0 || s.Data[0] == nil {
		return out
	}
	grid := s.Data[0]
	for r, rd := range grid.RowData {
		var row []string
		if rd != nil {
			row = make([]string, len(rd.Values))
			for c, cd := range rd.Values {
				row[c] = cellString(cd)
				if cd != nil && strings.TrimSpace(cd.Note) != "" {
					out.Notes[core.CellRef{Row: r, Col: c}] = strings.TrimSpace(cd.Note)
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}
	for _, md := range grid.RowMetadata {
		out.HiddenRows = append(out.HiddenRows, hidden(md))
	}
	for _, md := range grid.ColumnMetadata {
		out.HiddenCols = append(out.HiddenCols, hidden(md))
	}
	return out
}

func hidden(md *gsheet.DimensionProperties) bool {
	return md != nil && (md.HiddenByUser || md.HiddenByFilter)
}

func cellString(cd *gsheet.CellData) string {
	if cd == nil {
		return ""
	}
	ev := cd.EffectiveValue
	if ev == nil || ev.NumberValue == nil {
		return cd.FormattedValue
	}
	if isDateCell(cd) {
		if t, err := excelize.ExcelDateToTime(*ev.NumberValue, false); err == nil {
			return core.MonthLabel(t)
		}
		return cd.FormattedValue
	}
	return strconv.FormatFloat(*ev.NumberValue, 'f', -1, 64)
}

// isDateCell reports whether the cell is formatted as a date. Sheets uses
// the same day serials as spreadsheet files in the 1900 system.
func isDateCell(cd *gsheet.CellData) bool {
	if cd.EffectiveFormat == nil || cd.EffectiveFormat.NumberFormat == nil {
		return false
	}
	switch cd.EffectiveFormat.NumberFormat.Type {
	case "DATE", "DATE_TIME":
		return true
	}
	return false
}
