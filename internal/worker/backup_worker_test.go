package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pocketledger/internal/amqp"
	"pocketledger/internal/core"
	"pocketledger/internal/storage"
)

func newTestWorker(t *testing.T) (*BackupWorker, *storage.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	path := filepath.Join(dir, "backup.csv")
	return NewBackupWorker(store, path), store, path
}

func TestHandleBackupEvent(t *testing.T) {
	w, store, path := newTestWorker(t)
	ctx := context.Background()

	tx := &core.Transaction{Type: core.TypeExpense, Amount: 35.5, Category: "餐饮-快餐", Note: "午饭", Date: "2024-12-25"}
	if err := store.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("add transaction: %v", err)
	}

	if err := w.HandleBackupEvent(ctx, amqp.NewBackupEvent(tx.ID)); err != nil {
		t.Fatalf("HandleBackupEvent: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.Contains(line, "支出") || !strings.Contains(line, "35.50") || !strings.Contains(line, "午饭") {
		t.Errorf("backup row = %q", line)
	}
}

func TestHandleBackupEventAppends(t *testing.T) {
	w, store, path := newTestWorker(t)
	ctx := context.Background()

	for _, amount := range []float64{10, 20} {
		tx := &core.Transaction{Type: core.TypeExpense, Amount: amount, Category: "交通", Date: "2024-12-25"}
		if err := store.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("add transaction: %v", err)
		}
		if err := w.HandleBackupEvent(ctx, amqp.NewBackupEvent(tx.ID)); err != nil {
			t.Fatalf("HandleBackupEvent: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d backup rows, want 2:\n%s", len(lines), data)
	}
}

func TestHandleBackupEventMissingTransaction(t *testing.T) {
	w, _, path := newTestWorker(t)

	if err := w.HandleBackupEvent(context.Background(), amqp.NewBackupEvent(9999)); err != nil {
		t.Fatalf("missing transaction should not error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no backup file should be written for a missing transaction")
	}
}
