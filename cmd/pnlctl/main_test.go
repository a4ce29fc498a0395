package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sheetName = "P&L (Niko)"

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]any{
		{"PARTICULARS", "Jun-25", "Jul-25"},
		{"TOTAL SALES AND SERVICE CHARGES", 900000, 1234567},
		{"NET PROFIT", -1000, -25000},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	if err := f.AddComment(sheetName, excelize.Comment{
		Cell:      "C2",
		Author:    "Accounts",
		Paragraph: []excelize.RichTextRun{{Text: "POS checked"}},
	}); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	path := filepath.Join(dir, "MIS.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

type env struct {
	t        *testing.T
	dir      string
	workbook string
	db       string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	for _, key := range []string{"SOURCE_BACKEND", "AMQP_URL", "IMPORT_SHEET_NOTES", "REMARKS_BACKEND", "APPROVAL_CODE"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
	dir := t.TempDir()
	return &env{
		t:        t,
		dir:      dir,
		workbook: writeWorkbook(t, dir),
		db:       filepath.Join(dir, "remarks.db"),
	}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--workbook", e.workbook, "--remarks-backend", "sqlite", "--db", e.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("pnlctl %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestRemarksCommands(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("remarks", "set", "net profit ", "2025-07-01", "one-off repairs")
	if !strings.Contains(out, "Saved net profit|Jul-25") {
		t.Errorf("set output = %q", out)
	}

	out = e.mustRun("remarks", "list", "--json")
	var listed struct {
		Remarks map[string]string `json:"remarks"`
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	if listed.Remarks["net profit|Jul-25"] != "one-off repairs" {
		t.Fatalf("listed = %v", listed.Remarks)
	}

	out = e.mustRun("remarks", "list")
	if !strings.Contains(out, "ROW") || !strings.Contains(out, "one-off repairs") {
		t.Errorf("table output = %q", out)
	}

	e.mustRun("remarks", "delete", "net profit", "Jul-25")
	out = e.mustRun("remarks", "list", "--json")
	if strings.Contains(out, "one-off repairs") {
		t.Errorf("remark survived delete: %q", out)
	}

	if _, err := e.run("remarks", "set", "NET PROFIT", "Jul-25", "   "); err == nil {
		t.Error("empty remark text should fail")
	}
}

func TestRemarksClearNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	e.mustRun("remarks", "set", "NET PROFIT", "Jul-25", "x")

	if _, err := e.run("remarks", "clear"); err == nil {
		t.Fatal("clear without --yes should fail")
	}
	e.mustRun("remarks", "clear", "--yes")
	if out := e.mustRun("remarks", "list", "--json"); strings.Contains(out, "NET PROFIT") {
		t.Errorf("remarks after clear: %q", out)
	}
}

func TestRemarksWatchNeedsBroker(t *testing.T) {
	e := newEnv(t)
	_, err := e.run("remarks", "watch")
	if err == nil || !strings.Contains(err.Error(), "AMQP_URL") {
		t.Fatalf("err = %v, want AMQP_URL hint", err)
	}
}

func TestImportNotesKeepsExistingRemarks(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("import-notes")
	if !strings.Contains(out, "Imported 1 notes") {
		t.Errorf("import output = %q", out)
	}
	out = e.mustRun("remarks", "list", "--json")
	if !strings.Contains(out, "POS checked") {
		t.Fatalf("imported note missing: %q", out)
	}

	e.mustRun("remarks", "set", "TOTAL SALES AND SERVICE CHARGES", "Jul-25", "edited")
	if out := e.mustRun("import-notes"); !strings.Contains(out, "Imported 0 notes") {
		t.Errorf("second import output = %q", out)
	}
	if out := e.mustRun("remarks", "list", "--json"); !strings.Contains(out, "edited") {
		t.Errorf("import overwrote a remark: %q", out)
	}
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	e.mustRun("remarks", "set", "NET PROFIT", "Jul-25", "one-off repairs")

	target := filepath.Join(e.dir, "out.xlsx")
	out := e.mustRun("export", "-o", target)
	if !strings.Contains(out, "Wrote "+target) {
		t.Errorf("export output = %q", out)
	}

	f, err := excelize.OpenFile(target)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	if len(f.GetSheetList()) == 0 {
		t.Fatal("export has no sheets")
	}
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(rows) != 3 || rows[2][0] != "NET PROFIT" {
		t.Fatalf("exported rows = %v", rows)
	}
}

func TestExportDefaultName(t *testing.T) {
	e := newEnv(t)
	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(e.dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	e.mustRun("export")
	if _, err := os.Stat(filepath.Join(e.dir, "P&L_Jul-25.xlsx")); err != nil {
		t.Fatalf("default export file: %v", err)
	}
}

func TestRender(t *testing.T) {
	e := newEnv(t)
	e.mustRun("remarks", "set", "NET PROFIT", "Jul-25", "one-off repairs")

	out := e.mustRun("render")
	for _, want := range []string{`class="pnl-table"`, "NET PROFIT", "has-remark", "one-off repairs"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q", want)
		}
	}

	out = e.mustRun("render", "--no-remarks")
	if strings.Contains(out, "one-off repairs") {
		t.Error("--no-remarks still rendered the remark")
	}
}

func TestUnknownSource(t *testing.T) {
	e := newEnv(t)
	if _, err := e.run("--source", "ftp", "render"); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestGoogleAuthNeedsClient(t *testing.T) {
	t.Setenv("GOOGLE_OAUTH_CLIENT_FILE", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"google-auth"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "GOOGLE_OAUTH_CLIENT_FILE") {
		t.Fatalf("err = %v", err)
	}
}
