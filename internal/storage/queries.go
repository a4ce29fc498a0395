package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements used against the remarks table.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Remark is one row of the remarks table.
type Remark struct {
	RowLabel    string
	ColumnLabel string
	Remark      string
	Source      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const listRemarks = `
SELECT row_label, column_label, remark, source, created_at, updated_at
FROM remarks
ORDER BY row_label, column_label`

func (q *Queries) ListRemarks(ctx context.Context) ([]Remark, error) {
	rows, err := q.db.QueryContext(ctx, listRemarks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Remark
	for rows.Next() {
		var i Remark
		if err := rows.Scan(&i.RowLabel, &i.ColumnLabel, &i.Remark, &i.Source, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertRemark = `
INSERT INTO remarks (row_label, column_label, remark, source, created_at, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (row_label, column_label) DO UPDATE SET
    remark = excluded.remark,
    source = excluded.source,
    updated_at = CURRENT_TIMESTAMP`

type UpsertRemarkParams struct {
	RowLabel    string
	ColumnLabel string
	Remark      string
	Source      string
}

func (q *Queries) UpsertRemark(ctx context.Context, arg UpsertRemarkParams) error {
	_, err := q.db.ExecContext(ctx, upsertRemark, arg.RowLabel, arg.ColumnLabel, arg.Remark, arg.Source)
	return err
}

const insertRemarkIfAbsent = `
INSERT INTO remarks (row_label, column_label, remark, source, created_at, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (row_label, column_label) DO NOTHING`

// InsertRemarkIfAbsent reports whether a row was written.
func (q *Queries) InsertRemarkIfAbsent(ctx context.Context, arg UpsertRemarkParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, insertRemarkIfAbsent, arg.RowLabel, arg.ColumnLabel, arg.Remark, arg.Source)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const deleteRemark = `DELETE FROM remarks WHERE row_label = ? AND column_label = ?`

func (q *Queries) DeleteRemark(ctx context.Context, rowLabel, columnLabel string) error {
	_, err := q.db.ExecContext(ctx, deleteRemark, rowLabel, columnLabel)
	return err
}

const deleteAllRemarks = `DELETE FROM remarks`

func (q *Queries) DeleteAllRemarks(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteAllRemarks)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countRemarks = `SELECT COUNT(*) FROM remarks`

func (q *Queries) CountRemarks(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRemarks).Scan(&n)
	return n, err
}
