package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pnlboard/internal/amqp"
	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
	"pnlboard/internal/remarks/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.RemarkEvent
	err    error
	closed bool
}

func (p *recordingPublisher) PublishRemarkEvent(_ context.Context, e *amqp.RemarkEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func (p *recordingPublisher) actions() []amqp.RemarkAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.RemarkAction, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

// loadOnlyStore hides the memory store's Seed method.
type loadOnlyStore struct{ remarks.Store }

type failingStore struct{ remarks.Store }

func (failingStore) Save(context.Context, core.CellKey, string) error {
	return errors.New("disk full")
}

func TestRemarkService_SaveCanonicalizes(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRemarkService(memory.New(), pub)
	ctx := context.Background()

	key, err := svc.Save(ctx, " FOOD SALES ", "2025-07-01 00:00:00", "  checked  ")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if key != (core.CellKey{Row: "FOOD SALES", Column: "Jul-25"}) {
		t.Fatalf("key = %+v", key)
	}

	lookup, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text, ok := lookup.Get("FOOD SALES", "Jul-25"); !ok || text != "checked" {
		t.Fatalf("lookup = %q, %v", text, ok)
	}

	if got := pub.actions(); len(got) != 1 || got[0] != amqp.ActionSaved {
		t.Fatalf("events = %v", got)
	}
	if ev := pub.events[0]; ev.Key() != "FOOD SALES|Jul-25" || ev.Text != "checked" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestRemarkService_Validation(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRemarkService(memory.New(), pub)
	ctx := context.Background()

	if _, err := svc.Save(ctx, "RENT", "Jul-25", "   "); !errors.Is(err, remarks.ErrEmptyText) {
		t.Errorf("empty text err = %v", err)
	}
	if _, err := svc.Save(ctx, "", "Jul-25", "x"); !errors.Is(err, remarks.ErrInvalidKey) {
		t.Errorf("empty row err = %v", err)
	}
	if _, err := svc.Delete(ctx, "RENT", " "); !errors.Is(err, remarks.ErrInvalidKey) {
		t.Errorf("empty column err = %v", err)
	}
	if n := len(pub.actions()); n != 0 {
		t.Errorf("rejected writes published %d events", n)
	}
}

func TestRemarkService_DeleteAndClear(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRemarkService(memory.New(), pub)
	ctx := context.Background()

	svc.Save(ctx, "RENT", "Jul-25", "a")
	svc.Save(ctx, "RENT", "Aug-25", "b")

	if _, err := svc.Delete(ctx, "RENT", "Jul-25"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Delete(ctx, "RENT", "Jul-25"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	lookup, _ := svc.Load(ctx)
	if len(lookup) != 0 {
		t.Fatalf("remarks after clear = %v", lookup)
	}

	want := []amqp.RemarkAction{amqp.ActionSaved, amqp.ActionSaved, amqp.ActionDeleted, amqp.ActionDeleted, amqp.ActionCleared}
	got := pub.actions()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestRemarkService_PublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &recordingPublisher{err: amqp.ErrCircuitOpen}
	svc := NewRemarkService(memory.New(), pub)

	if _, err := svc.Save(context.Background(), "RENT", "Jul-25", "x"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	lookup, _ := svc.Load(context.Background())
	if _, ok := lookup.Get("RENT", "Jul-25"); !ok {
		t.Fatal("remark not stored")
	}
}

func TestRemarkService_StoreFailure(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRemarkService(failingStore{memory.New()}, pub)

	if _, err := svc.Save(context.Background(), "RENT", "Jul-25", "x"); err == nil {
		t.Fatal("expected store error")
	}
	if n := len(pub.actions()); n != 0 {
		t.Fatalf("failed write published %d events", n)
	}
}

func TestRemarkService_ImportNotes(t *testing.T) {
	notes := map[core.CellKey]string{
		{Row: "RENT", Column: "Jul-25"}:           "from sheet",
		{Row: "FOOD SALES", Column: "2025-07-01"}: "POS total",
		{Row: "", Column: "Jul-25"}:               "no row",
		{Row: "NET PROFIT", Column: "Jul-25"}:     "  ",
	}

	for name, store := range map[string]remarks.Store{
		"seeder":    memory.New(),
		"load only": loadOnlyStore{memory.New()},
	} {
		t.Run(name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc := NewRemarkService(store, pub)
			ctx := context.Background()

			if _, err := svc.Save(ctx, "RENT", "Jul-25", "user wrote this"); err != nil {
				t.Fatalf("Save: %v", err)
			}

			n, err := svc.ImportNotes(ctx, notes)
			if err != nil {
				t.Fatalf("ImportNotes: %v", err)
			}
			if n != 1 {
				t.Fatalf("imported = %d, want 1", n)
			}

			lookup, _ := svc.Load(ctx)
			if text, _ := lookup.Get("RENT", "Jul-25"); text != "user wrote this" {
				t.Errorf("user remark overwritten: %q", text)
			}
			if text, _ := lookup.Get("FOOD SALES", "Jul-25"); text != "POS total" {
				t.Errorf("imported remark = %q", text)
			}

			// A second import finds nothing new.
			if n, _ := svc.ImportNotes(ctx, notes); n != 0 {
				t.Errorf("second import = %d, want 0", n)
			}

			got := pub.actions()
			if len(got) != 2 || got[1] != amqp.ActionImported || pub.events[1].Count != 1 {
				t.Errorf("events = %v", got)
			}
		})
	}
}

func TestRemarkService_Close(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRemarkService(memory.New(), pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Error("publisher not closed")
	}

	if err := NewRemarkService(memory.New(), nil).Close(); err != nil {
		t.Fatalf("Close without publisher: %v", err)
	}
}
