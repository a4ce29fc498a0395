package storage

import (
	"context"
	"path/filepath"
	"testing"

	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
	"pnlboard/internal/remarks/remarkstest"
)

func newTestStore(t *testing.T, path string) *RemarkStore {
	t.Helper()
	s, err := NewRemarkStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRemarkStoreContract(t *testing.T) {
	remarkstest.Run(t, func(t *testing.T) remarks.Store {
		return newTestStore(t, filepath.Join(t.TempDir(), "remarks.db"))
	})
}

func TestRemarkStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "remarks.db")

	s, err := NewRemarkStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := core.CellKey{Row: "FOOD SALES", Column: "Jul-25"}
	if err := s.Save(ctx, key, "persisted"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := newTestStore(t, path)
	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[key] != "persisted" {
		t.Fatalf("unexpected remarks after reopen: %v", got)
	}
	if n, err := reopened.Count(ctx); err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
}

func TestRemarkStoreListCarriesSource(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, filepath.Join(t.TempDir(), "remarks.db"))

	if err := s.Save(ctx, core.CellKey{Row: "A", Column: "Jul-25"}, "typed"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Seed(ctx, core.CellKey{Row: "B", Column: "Jul-25"}, "imported"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Source != SourceUser || rows[1].Source != SourceNote {
		t.Fatalf("unexpected sources %q %q", rows[0].Source, rows[1].Source)
	}
	if rows[0].CreatedAt.IsZero() || rows[0].UpdatedAt.IsZero() {
		t.Fatalf("timestamps should be set: %+v", rows[0])
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remarks.db")
	first, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first != second || first != 2 {
		t.Fatalf("versions %d, %d", first, second)
	}
}

func TestRemarkStoreWritesCanonicalKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, filepath.Join(t.TempDir(), "remarks.db"))

	raw := core.CellKey{Row: "  rent ", Column: "2025-07-01 00:00:00"}
	if err := s.Save(ctx, raw, "lease renewed"); err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := raw.Normalize()
	if len(rows) != 1 || rows[0].RowLabel != want.Row || rows[0].ColumnLabel != want.Column {
		t.Fatalf("stored rows = %+v, want key %v", rows, want)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[want] != "lease renewed" {
		t.Fatalf("load = %v", got)
	}

	if err := s.Delete(ctx, raw); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, err := s.Count(ctx); err != nil || n != 0 {
		t.Fatalf("count after delete = %d, %v", n, err)
	}
}
