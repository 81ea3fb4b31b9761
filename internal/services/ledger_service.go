// Package services orchestrates ledger operations across SQLite and AMQP.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"pocketledger/internal/core"
	"pocketledger/internal/csvio"
	"pocketledger/internal/storage"
)

// BackupPublisher publishes backup events for persisted transactions.
// A nil publisher disables backups without failing writes.
type BackupPublisher interface {
	PublishBackup(ctx context.Context, id int64) error
	Close() error
}

// LedgerService wraps the record store with backup event publishing.
// Writes go to SQLite first; publish failures are logged and never
// surface to the caller.
type LedgerService struct {
	store     *storage.Store
	publisher BackupPublisher
}

func NewLedgerService(store *storage.Store, publisher BackupPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// AddTransaction validates and saves a transaction, then publishes a
// backup event for it.
func (s *LedgerService) AddTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.store.AddTransaction(ctx, t); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	s.publishBackup(ctx, t.ID)
	return nil
}

// UpdateTransaction validates and updates a transaction. The bool reports
// whether a row with that ID existed.
func (s *LedgerService) UpdateTransaction(ctx context.Context, t *core.Transaction) (bool, error) {
	if err := t.Validate(); err != nil {
		return false, err
	}
	found, err := s.store.UpdateTransaction(ctx, *t)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	if found {
		s.publishBackup(ctx, t.ID)
	}
	return found, nil
}

// DeleteTransaction removes a transaction. Unknown IDs are a no-op.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ImportCSV parses transaction rows from r and saves the valid ones,
// returning how many were imported and how many rows were skipped.
func (s *LedgerService) ImportCSV(ctx context.Context, r io.Reader) (imported, skipped int, err error) {
	result, err := csvio.Import(r)
	if err != nil {
		return 0, 0, fmt.Errorf("parse csv: %w", err)
	}

	skipped = result.Skipped
	for i := range result.Transactions {
		t := &result.Transactions[i]
		if err := s.store.AddTransaction(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to import row", "error", err, "category", t.Category)
			skipped++
			continue
		}
		s.publishBackup(ctx, t.ID)
		imported++
	}

	slog.InfoContext(ctx, "Imported transactions", "imported", imported, "skipped", skipped)
	return imported, skipped, nil
}

// ExportCSV writes every stored transaction to w in the interchange format.
func (s *LedgerService) ExportCSV(ctx context.Context, w io.Writer) error {
	transactions, err := s.store.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if err := csvio.Export(w, transactions); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

func (s *LedgerService) publishBackup(ctx context.Context, id int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Backup publisher not available, skipping event")
		return
	}
	if err := s.publisher.PublishBackup(ctx, id); err != nil {
		// The record is already saved locally, so only log.
		slog.ErrorContext(ctx, "Failed to publish backup event", "id", id, "error", err)
	}
}

// Close closes both the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
