package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"pnlboard/internal/amqp"
	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
)

// EventPublisher announces remark changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishRemarkEvent(ctx context.Context, event *amqp.RemarkEvent) error
}

// RemarkService normalizes and persists remarks, then publishes a change
// event. The store write is the source of truth: publishing failures are
// logged and never fail the operation.
type RemarkService struct {
	store     remarks.Store
	publisher EventPublisher
}

// NewRemarkService wires a store and an optional publisher (nil disables
// events).
func NewRemarkService(store remarks.Store, publisher EventPublisher) *RemarkService {
	return &RemarkService{store: store, publisher: publisher}
}

// Load returns every stored remark.
func (s *RemarkService) Load(ctx context.Context) (remarks.Lookup, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load remarks: %w", err)
	}
	return remarks.Lookup(m), nil
}

// Save stores text for the (row, column) cell and returns the canonical key.
func (s *RemarkService) Save(ctx context.Context, row, column, text string) (core.CellKey, error) {
	key, err := remarks.Canonical(core.CellKey{Row: row, Column: column})
	if err != nil {
		return core.CellKey{}, err
	}
	clean, err := remarks.CleanText(text)
	if err != nil {
		return core.CellKey{}, err
	}
	if err := s.store.Save(ctx, key, clean); err != nil {
		return core.CellKey{}, fmt.Errorf("save remark %s: %w", key, err)
	}

	s.publish(ctx, amqp.NewRemarkEvent(amqp.ActionSaved, key.Row, key.Column, clean))
	return key, nil
}

// Delete removes the remark for (row, column). Deleting a missing remark is
// not an error.
func (s *RemarkService) Delete(ctx context.Context, row, column string) (core.CellKey, error) {
	key, err := remarks.Canonical(core.CellKey{Row: row, Column: column})
	if err != nil {
		return core.CellKey{}, err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return core.CellKey{}, fmt.Errorf("delete remark %s: %w", key, err)
	}

	s.publish(ctx, amqp.NewRemarkEvent(amqp.ActionDeleted, key.Row, key.Column, ""))
	return key, nil
}

// ClearAll removes every remark.
func (s *RemarkService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear remarks: %w", err)
	}
	s.publish(ctx, amqp.NewRemarkEvent(amqp.ActionCleared, "", "", ""))
	return nil
}

// ImportNotes seeds remarks from sheet notes. Cells that already have a
// remark keep it. It returns the number of remarks written.
func (s *RemarkService) ImportNotes(ctx context.Context, notes map[core.CellKey]string) (int, error) {
	if len(notes) == 0 {
		return 0, nil
	}

	seed := s.seedFunc(ctx)
	if seed == nil {
		return 0, errors.New("import notes: store cannot be read")
	}

	imported := 0
	for key, text := range notes {
		k, err := remarks.Canonical(key)
		if err != nil {
			continue
		}
		clean, err := remarks.CleanText(text)
		if err != nil {
			continue
		}
		ok, err := seed(k, clean)
		if err != nil {
			return imported, fmt.Errorf("import note %s: %w", k, err)
		}
		if ok {
			imported++
		}
	}

	if imported > 0 {
		ev := amqp.NewRemarkEvent(amqp.ActionImported, "", "", "")
		ev.Count = imported
		s.publish(ctx, ev)
	}
	slog.InfoContext(ctx, "Sheet notes imported",
		"component", "remarks",
		"notes", len(notes),
		"imported", imported)
	return imported, nil
}

// seedFunc prefers the store's own insert-if-absent. Other stores get a
// check against a snapshot taken before the import.
func (s *RemarkService) seedFunc(ctx context.Context) func(core.CellKey, string) (bool, error) {
	if seeder, ok := s.store.(remarks.Seeder); ok {
		return func(k core.CellKey, text string) (bool, error) {
			return seeder.Seed(ctx, k, text)
		}
	}
	existing, err := s.store.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load remarks before import", "error", err)
		return nil
	}
	return func(k core.CellKey, text string) (bool, error) {
		if _, ok := existing[k]; ok {
			return false, nil
		}
		if err := s.store.Save(ctx, k, text); err != nil {
			return false, err
		}
		existing[k] = text
		return true, nil
	}
}

func (s *RemarkService) publish(ctx context.Context, event *amqp.RemarkEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRemarkEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish remark event",
			"action", event.Action,
			"key", event.Key(),
			"error", err)
	}
}

// Close closes the store and the publisher when they hold resources.
func (s *RemarkService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close remark service: %w", errors.Join(errs...))
	}
	return nil
}

// Ping checks the store when it supports it.
func (s *RemarkService) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
