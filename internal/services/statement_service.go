package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"pnlboard/internal/cache"
	"pnlboard/internal/core"
	"pnlboard/internal/log"
	"pnlboard/internal/projection"
	"pnlboard/internal/workbook"
)

const (
	statementKey = "statement"
	readTimeout  = 30 * time.Second
)

// Statement is one projected read of the source sheet.
type Statement struct {
	Table core.Table
	// Notes are the sheet's own cell comments keyed like remarks.
	Notes     map[core.CellKey]string
	SheetName string
	LoadedAt  time.Time
}

// StatementService reads and projects the statement sheet. Concurrent loads
// share one read and the result is kept for the cache TTL.
type StatementService struct {
	source workbook.Source
	cache  *cache.LRUCache[*Statement]
	group  singleflight.Group
	// generation advances on Invalidate; a read only caches its result if
	// no invalidation happened while it ran.
	generation atomic.Uint64
}

// NewStatementService caches projected statements for ttl. A zero ttl reads
// the source on every load that is not already in flight.
func NewStatementService(source workbook.Source, ttl time.Duration) *StatementService {
	return &StatementService{
		source: source,
		cache:  cache.NewLRUCache[*Statement](1, ttl),
	}
}

// Load returns the current statement.
func (s *StatementService) Load(ctx context.Context) (*Statement, error) {
	if st, ok := s.cache.Get(statementKey); ok {
		return st, nil
	}

	v, err, shared := s.group.Do(statementKey, func() (any, error) {
		gen := s.generation.Load()
		// The read outlives the request that started it, since other callers
		// may be waiting on it.
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readTimeout)
		defer cancel()
		return s.read(readCtx, gen)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.DebugContext(ctx, "Statement read shared with concurrent request")
	}
	return v.(*Statement), nil
}

func (s *StatementService) read(ctx context.Context, gen uint64) (*Statement, error) {
	start := time.Now()
	sheet, err := s.source.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read statement sheet: %w", err)
	}
	tbl, err := projection.FromSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("project sheet %q: %w", sheet.Name, err)
	}

	st := &Statement{
		Table:     tbl,
		Notes:     projection.Notes(sheet),
		SheetName: sheet.Name,
		LoadedAt:  time.Now(),
	}
	if s.generation.Load() == gen {
		s.cache.Set(statementKey, st)
	} else {
		slog.DebugContext(ctx, "Statement invalidated during read, not cached")
	}

	log.NewStructuredLogger(log.FromContext(ctx)).
		LogStatementLoaded(ctx, s.Describe(), len(tbl.Rows), len(tbl.Columns))
	slog.DebugContext(ctx, "Statement read timing",
		"notes", len(st.Notes),
		"duration", time.Since(start))
	return st, nil
}

// Invalidate drops the cached statement so the next Load reads the source.
// A read already in flight still answers its own callers but is neither
// cached nor shared with later loads.
func (s *StatementService) Invalidate() {
	s.generation.Add(1)
	s.group.Forget(statementKey)
	s.cache.Purge()
}

// Cleaner exposes the statement cache for periodic expiry.
func (s *StatementService) Cleaner() cache.Cleaner {
	return s.cache
}

// Describe names the underlying source.
func (s *StatementService) Describe() string {
	if d, ok := s.source.(workbook.Describer); ok {
		return d.Describe()
	}
	return "workbook"
}
