package excel

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"pnlboard/internal/core"
	"pnlboard/internal/projection"
	"pnlboard/internal/workbook"
)

const sheetName = "P&L (Niko)"

func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	set := func(cell string, v any) {
		t.Helper()
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	set("A1", "PARTICULARS")
	set("B1", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	set("C1", "%")
	set("D1", "Jul-25")
	set("E1", "%")
	set("A2", "SALES")
	set("A3", "FOOD SALES")
	set("B3", 100000)
	set("C3", 0.5)
	set("D3", 120000.75)
	set("E3", 0.6)
	set("A4", "SECRET ROW")
	set("B4", 1)
	set("A5", "NET PROFIT")
	set("B5", -2500)
	set("D5", 300)

	if err := f.SetRowVisible(sheetName, 4, false); err != nil {
		t.Fatalf("hide row: %v", err)
	}
	if err := f.SetColVisible(sheetName, "C", false); err != nil {
		t.Fatalf("hide column: %v", err)
	}
	if err := f.AddComment(sheetName, excelize.Comment{
		Cell:      "D3",
		Author:    "Accounts",
		Paragraph: []excelize.RichTextRun{{Text: "includes catering"}},
	}); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	path := filepath.Join(t.TempDir(), "MIS.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestReadExtractsSheet(t *testing.T) {
	path := writeFixture(t)
	sheet, err := NewReader(path, sheetName).Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got := sheet.Value(0, 1); got != "Jun-25" {
		t.Fatalf("date header = %q, want Jun-25", got)
	}
	if got := sheet.Value(0, 3); got != "Jul-25" {
		t.Fatalf("text header = %q", got)
	}
	if got := sheet.Value(2, 3); got != "120000.75" {
		t.Fatalf("raw value = %q", got)
	}
	if !sheet.HiddenRows[3] || sheet.HiddenRows[2] {
		t.Fatalf("hidden rows = %v", sheet.HiddenRows)
	}
	if !sheet.HiddenCols[2] || sheet.HiddenCols[1] {
		t.Fatalf("hidden cols = %v", sheet.HiddenCols)
	}
	if note := sheet.Notes[core.CellRef{Row: 2, Col: 3}]; note != "includes catering" {
		t.Fatalf("note = %q", note)
	}
}

func TestReadFeedsProjection(t *testing.T) {
	sheet, err := NewReader(writeFixture(t), sheetName).Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tbl, err := projection.FromSheet(sheet)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(tbl.Columns) != 4 || tbl.Columns[1] != "Jun-25" || tbl.Columns[2] != "Jul-25" {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if got := tbl.Labels(); len(got) != 3 || got[2] != "NET PROFIT" {
		t.Fatalf("rows = %v", got)
	}
}

func TestReadSheetNameFallback(t *testing.T) {
	if _, err := NewReader(writeFixture(t), "p&l (niko)").Read(context.Background()); err != nil {
		t.Fatalf("case-insensitive sheet lookup failed: %v", err)
	}
}

func TestReadMissingSheet(t *testing.T) {
	_, err := NewReader(writeFixture(t), "Other").Read(context.Background())
	if !errors.Is(err, workbook.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "none.xlsx"), sheetName).Read(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
