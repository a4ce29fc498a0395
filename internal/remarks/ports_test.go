package remarks

import (
	"errors"
	"testing"

	"pnlboard/internal/core"
)

func TestCanonical(t *testing.T) {
	k, err := Canonical(core.CellKey{Row: " FOOD SALES ", Column: "2025-07-01 00:00:00"})
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if k.String() != "FOOD SALES|Jul-25" {
		t.Fatalf("unexpected key %q", k.String())
	}
	if _, err := Canonical(core.CellKey{Row: "A"}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestLookupUsesCanonicalKeys(t *testing.T) {
	l := Lookup{{Row: "FOOD SALES", Column: "Jul-25"}: "note"}
	if got, ok := l.Get("FOOD SALES", "2025-07-01T00:00:00"); !ok || got != "note" {
		t.Fatalf("raw month lookup failed: %q %v", got, ok)
	}
	if _, ok := l.Get("FOOD SALES", "Aug-25"); ok {
		t.Fatalf("unexpected hit")
	}
	if _, ok := Lookup(nil).Get("A", "Jul-25"); ok {
		t.Fatalf("nil lookup should miss")
	}
	if got := l.Strings(); got["FOOD SALES|Jul-25"] != "note" {
		t.Fatalf("unexpected strings %v", got)
	}
}
