// Package worker appends backed-up transactions to a rolling CSV file as
// backup events arrive from the broker.
package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"pocketledger/internal/amqp"
	"pocketledger/internal/core"
	"pocketledger/internal/storage"
)

// BackupWorker resolves backup events against the store and appends the
// full row to the backup file. Events for IDs that were deleted in the
// meantime are dropped without error.
type BackupWorker struct {
	store *storage.Store
	path  string

	mu sync.Mutex
}

func NewBackupWorker(store *storage.Store, path string) *BackupWorker {
	return &BackupWorker{store: store, path: path}
}

// HandleBackupEvent processes a single backup event from AMQP.
func (w *BackupWorker) HandleBackupEvent(ctx context.Context, event *amqp.BackupEvent) error {
	t, found, err := w.store.TransactionByID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}
	if !found {
		// Deleted between publish and consume, nothing to back up.
		slog.InfoContext(ctx, "Transaction gone, skipping backup", "id", event.ID)
		return nil
	}

	if err := w.appendRow(t); err != nil {
		return fmt.Errorf("append backup row: %w", err)
	}

	slog.InfoContext(ctx, "Transaction backed up",
		"id", t.ID,
		"category", t.Category,
		"amount", t.Amount,
		"file", w.path)
	return nil
}

func (w *BackupWorker) appendRow(t core.Transaction) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	row := []string{
		strconv.FormatInt(t.ID, 10),
		t.Type.Label(),
		t.Category,
		strconv.FormatFloat(t.Amount, 'f', 2, 64),
		t.Date,
		t.Note,
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write backup row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush backup row: %w", err)
	}
	return f.Sync()
}
