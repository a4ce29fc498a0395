// Package remarks defines the annotation store: free-text remarks attached
// to (row label, month) cells of the statement.
package remarks

import (
	"context"
	"errors"
	"strings"

	"pnlboard/internal/core"
)

var (
	// ErrEmptyText is returned when saving a remark with no text.
	ErrEmptyText = errors.New("remarks: empty remark text")
	// ErrInvalidKey is returned when a key lacks a row or a column label.
	ErrInvalidKey = errors.New("remarks: key needs a row and a column")
)

// Store persists remarks keyed by canonical CellKey. Save is an upsert and
// Delete of a missing key is not an error.
type Store interface {
	Load(ctx context.Context) (map[core.CellKey]string, error)
	Save(ctx context.Context, key core.CellKey, text string) error
	Delete(ctx context.Context, key core.CellKey) error
	ClearAll(ctx context.Context) error
}

// Seeder is implemented by stores that can write a remark only when the cell
// has none yet. Imports use it so they never overwrite user remarks.
type Seeder interface {
	Seed(ctx context.Context, key core.CellKey, text string) (bool, error)
}

// Canonical normalizes a key and rejects incomplete ones. Every store and
// every lookup goes through it so that "2025-07-01 00:00:00" and "Jul-25"
// address the same remark.
func Canonical(key core.CellKey) (core.CellKey, error) {
	k := key.Normalize()
	if k.IsZero() {
		return core.CellKey{}, ErrInvalidKey
	}
	return k, nil
}

// CleanText trims a remark and rejects empty ones.
func CleanText(text string) (string, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return "", ErrEmptyText
	}
	return t, nil
}

// Lookup is a read-only view over loaded remarks that canonicalizes keys on
// the way in.
type Lookup map[core.CellKey]string

// Get returns the remark for (row, column), if any.
func (l Lookup) Get(row, column string) (string, bool) {
	if l == nil {
		return "", false
	}
	k, err := Canonical(core.CellKey{Row: row, Column: column})
	if err != nil {
		return "", false
	}
	text, ok := l[k]
	return text, ok
}

// Strings renders the remarks keyed by "ROW|Mon-YY".
func (l Lookup) Strings() map[string]string {
	out := make(map[string]string, len(l))
	for k, v := range l {
		out[k.String()] = v
	}
	return out
}
