// Package workbook names the outbound port through which the statement sheet
// is read. Implementations live in workbook/excel and workbook/google.
package workbook

import (
	"context"
	"errors"

	"pnlboard/internal/core"
)

// ErrSheetNotFound is returned when the configured sheet does not exist.
var ErrSheetNotFound = errors.New("workbook: sheet not found")

// Source reads one worksheet with its visibility metadata and cell notes.
type Source interface {
	Read(ctx context.Context) (core.Sheet, error)
}

// Describer is implemented by sources that can name what they read from,
// for logs and the page footer.
type Describer interface {
	Describe() string
}
