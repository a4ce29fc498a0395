package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"pnlboard/internal/core"
	"pnlboard/internal/remarks"

	_ "modernc.org/sqlite"
)

// Remark sources.
const (
	SourceUser = "user"
	SourceNote = "sheet-note"
)

// RemarkStore is the durable remarks.Store backed by a SQLite file.
type RemarkStore struct {
	db      *sql.DB
	queries *Queries
	// mu serializes writers; readers go straight to the database.
	mu sync.Mutex
}

var _ remarks.Store = (*RemarkStore)(nil)

func NewRemarkStore(dbPath string) (*RemarkStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Remark database ready", "path", dbPath, "schema_version", version)

	return &RemarkStore{db: db, queries: New(db)}, nil
}

func (r *RemarkStore) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *RemarkStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load returns every stored remark keyed by canonical cell.
func (r *RemarkStore) Load(ctx context.Context) (map[core.CellKey]string, error) {
	rows, err := r.queries.ListRemarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remarks: %w", err)
	}
	out := make(map[core.CellKey]string, len(rows))
	for _, row := range rows {
		out[core.CellKey{Row: row.RowLabel, Column: row.ColumnLabel}] = row.Remark
	}
	return out, nil
}

// List returns the stored rows with their timestamps and source.
func (r *RemarkStore) List(ctx context.Context) ([]Remark, error) {
	rows, err := r.queries.ListRemarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remarks: %w", err)
	}
	return rows, nil
}

func (r *RemarkStore) Save(ctx context.Context, key core.CellKey, text string) error {
	k, err := remarks.Canonical(key)
	if err != nil {
		return err
	}
	t, err := remarks.CleanText(text)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.queries.UpsertRemark(ctx, UpsertRemarkParams{
		RowLabel:    k.Row,
		ColumnLabel: k.Column,
		Remark:      t,
		Source:      SourceUser,
	}); err != nil {
		return fmt.Errorf("save remark %s: %w", k, err)
	}

	slog.InfoContext(ctx, "Remark saved", "key", k.String(), "length", len(t))
	return nil
}

// Seed stores text only when the cell has no remark yet. The boolean
// reports whether anything was written.
func (r *RemarkStore) Seed(ctx context.Context, key core.CellKey, text string) (bool, error) {
	k, err := remarks.Canonical(key)
	if err != nil {
		return false, err
	}
	t, err := remarks.CleanText(text)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	written, err := r.queries.InsertRemarkIfAbsent(ctx, UpsertRemarkParams{
		RowLabel:    k.Row,
		ColumnLabel: k.Column,
		Remark:      t,
		Source:      SourceNote,
	})
	if err != nil {
		return false, fmt.Errorf("seed remark %s: %w", k, err)
	}
	return written, nil
}

func (r *RemarkStore) Delete(ctx context.Context, key core.CellKey) error {
	k, err := remarks.Canonical(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.queries.DeleteRemark(ctx, k.Row, k.Column); err != nil {
		return fmt.Errorf("delete remark %s: %w", k, err)
	}

	slog.InfoContext(ctx, "Remark deleted", "key", k.String())
	return nil
}

// ClearAll removes every remark in a single transaction.
func (r *RemarkStore) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	n, err := r.queries.WithTx(tx).DeleteAllRemarks(ctx)
	if err != nil {
		return fmt.Errorf("clear remarks: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}

	slog.InfoContext(ctx, "All remarks cleared", "count", n)
	return nil
}

// Count returns the number of stored remarks.
func (r *RemarkStore) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountRemarks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count remarks: %w", err)
	}
	return n, nil
}
