package memory

import (
	"bufio"
	"context"
	"maps"
	"os"
	"strings"
	"sync"

	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
)

// Store keeps remarks in process memory. Contents are lost on restart.
type Store struct {
	mu    sync.Mutex
	items map[core.CellKey]string
}

func New() *Store {
	return &Store{items: map[core.CellKey]string{}}
}

// NewFromFile seeds the store from a file of "ROW|COLUMN<TAB>remark" lines.
// Blank lines, comments and malformed lines are skipped; a missing file
// yields an empty store.
func NewFromFile(path string) *Store {
	s := New()
	f, err := os.Open(path)
	if err != nil {
		return s
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rawKey, text, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		key, ok := core.ParseCellKey(rawKey)
		if !ok {
			continue
		}
		if t, err := remarks.CleanText(text); err == nil {
			s.items[key] = t
		}
	}
	return s
}

// Load returns a copy of every remark.
func (s *Store) Load(_ context.Context) (map[core.CellKey]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.items), nil
}

func (s *Store) Save(_ context.Context, key core.CellKey, text string) error {
	k, err := remarks.Canonical(key)
	if err != nil {
		return err
	}
	t, err := remarks.CleanText(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[k] = t
	return nil
}

// Seed stores text only if the key has no remark yet.
func (s *Store) Seed(_ context.Context, key core.CellKey, text string) (bool, error) {
	k, err := remarks.Canonical(key)
	if err != nil {
		return false, err
	}
	t, err := remarks.CleanText(text)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[k]; ok {
		return false, nil
	}
	s.items[k] = t
	return true, nil
}

func (s *Store) Delete(_ context.Context, key core.CellKey) error {
	k, err := remarks.Canonical(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, k)
	return nil
}

// ClearAll swaps in an empty map.
func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = map[core.CellKey]string{}
	return nil
}
