// Package remarkstest holds behavior checks shared by every remarks.Store
// implementation.
package remarkstest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
)

// Run exercises a fresh store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) remarks.Store) {
	t.Helper()

	t.Run("empty", func(t *testing.T) {
		got, err := newStore(t).Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("fresh store should be empty, got %v", got)
		}
	})

	t.Run("save load overwrite clear", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		key := core.CellKey{Row: "FOOD SALES", Column: "Jul-25"}

		if err := s.Save(ctx, key, "Test remark for July 2025"); err != nil {
			t.Fatalf("save: %v", err)
		}
		got := mustLoad(t, s)
		if len(got) != 1 || got[key] != "Test remark for July 2025" {
			t.Fatalf("unexpected remarks after save: %v", got)
		}

		if err := s.Save(ctx, key, "Updated test remark"); err != nil {
			t.Fatalf("resave: %v", err)
		}
		got = mustLoad(t, s)
		if len(got) != 1 || got[key] != "Updated test remark" {
			t.Fatalf("resave should overwrite, got %v", got)
		}

		other := core.CellKey{Row: "SERVICE CHARGE", Column: "Aug-25"}
		if err := s.Save(ctx, other, "Another test remark"); err != nil {
			t.Fatalf("save other: %v", err)
		}
		if err := s.Delete(ctx, key); err != nil {
			t.Fatalf("delete: %v", err)
		}
		got = mustLoad(t, s)
		if _, ok := got[key]; ok || got[other] != "Another test remark" {
			t.Fatalf("unexpected remarks after delete: %v", got)
		}

		if err := s.ClearAll(ctx); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if got := mustLoad(t, s); len(got) != 0 {
			t.Fatalf("clear should empty the store, got %v", got)
		}
	})

	t.Run("raw and canonical month collide", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		if err := s.Save(ctx, core.CellKey{Row: "FOOD SALES", Column: "2025-07-01 00:00:00"}, "raw"); err != nil {
			t.Fatalf("save raw: %v", err)
		}
		if err := s.Save(ctx, core.CellKey{Row: " FOOD SALES", Column: "Jul-25"}, "pretty"); err != nil {
			t.Fatalf("save pretty: %v", err)
		}
		got := mustLoad(t, s)
		if len(got) != 1 {
			t.Fatalf("expected a single entry, got %v", got)
		}
		if got[core.CellKey{Row: "FOOD SALES", Column: "Jul-25"}] != "pretty" {
			t.Fatalf("unexpected remarks %v", got)
		}
		if err := s.Delete(ctx, core.CellKey{Row: "FOOD SALES", Column: "2025-07-01"}); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if got := mustLoad(t, s); len(got) != 0 {
			t.Fatalf("delete by raw month should remove entry, got %v", got)
		}
	})

	t.Run("delete missing is no error", func(t *testing.T) {
		if err := newStore(t).Delete(context.Background(), core.CellKey{Row: "X", Column: "Jan-25"}); err != nil {
			t.Fatalf("delete missing: %v", err)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		if err := s.Save(ctx, core.CellKey{Row: "", Column: "Jul-25"}, "x"); !errors.Is(err, remarks.ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey, got %v", err)
		}
		if err := s.Save(ctx, core.CellKey{Row: "A", Column: "Jul-25"}, "   "); !errors.Is(err, remarks.ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText, got %v", err)
		}
	})

	t.Run("seed never overwrites", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		seeder, ok := s.(remarks.Seeder)
		if !ok {
			t.Skip("store does not support seeding")
		}
		key := core.CellKey{Row: "RENT", Column: "Jul-25"}
		if err := s.Save(ctx, key, "typed"); err != nil {
			t.Fatalf("save: %v", err)
		}
		written, err := seeder.Seed(ctx, core.CellKey{Row: "RENT", Column: "2025-07-01"}, "from sheet")
		if err != nil || written {
			t.Fatalf("seed over existing: written=%v err=%v", written, err)
		}
		written, err = seeder.Seed(ctx, core.CellKey{Row: "POWER", Column: "Jul-25"}, "from sheet")
		if err != nil || !written {
			t.Fatalf("seed new: written=%v err=%v", written, err)
		}
		got := mustLoad(t, s)
		if got[key] != "typed" || got[core.CellKey{Row: "POWER", Column: "Jul-25"}] != "from sheet" {
			t.Fatalf("unexpected remarks %v", got)
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					key := core.CellKey{Row: fmt.Sprintf("ROW %d", j), Column: "Jul-25"}
					if err := s.Save(ctx, key, fmt.Sprintf("writer %d", i)); err != nil {
						t.Errorf("save: %v", err)
						return
					}
				}
			}(i)
		}
		wg.Wait()
		if got := mustLoad(t, s); len(got) != 10 {
			t.Fatalf("expected 10 keys, got %d", len(got))
		}
	})
}

func mustLoad(t *testing.T, s remarks.Store) map[core.CellKey]string {
	t.Helper()
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return got
}
