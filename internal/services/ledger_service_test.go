package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"pocketledger/internal/core"
	"pocketledger/internal/storage"
)

type fakePublisher struct {
	published []int64
	fail      bool
}

func (p *fakePublisher) PublishBackup(_ context.Context, id int64) error {
	if p.fail {
		return errors.New("connection refused")
	}
	p.published = append(p.published, id)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func newTestService(t *testing.T, pub BackupPublisher) *LedgerService {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewLedgerService(store, pub)
}

func TestAddTransactionPublishesBackup(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	tx := &core.Transaction{Type: core.TypeExpense, Amount: 35.5, Category: "餐饮", Date: "2024-12-25"}
	if err := svc.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if tx.ID <= 0 {
		t.Fatalf("ID = %d, want positive", tx.ID)
	}
	if len(pub.published) != 1 || pub.published[0] != tx.ID {
		t.Errorf("published = %v, want [%d]", pub.published, tx.ID)
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub)

	tx := &core.Transaction{Type: core.TypeExpense, Amount: -5, Category: "餐饮", Date: "2024-12-25"}
	if err := svc.AddTransaction(context.Background(), tx); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("AddTransaction = %v, want ErrInvalidAmount", err)
	}
	if len(pub.published) != 0 {
		t.Error("nothing should be published for a rejected transaction")
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc := newTestService(t, &fakePublisher{fail: true})

	tx := &core.Transaction{Type: core.TypeIncome, Amount: 5000, Category: "工资", Date: "2024-12-01"}
	if err := svc.AddTransaction(context.Background(), tx); err != nil {
		t.Fatalf("AddTransaction should succeed despite publish failure: %v", err)
	}
}

func TestNilPublisherIsSkipped(t *testing.T) {
	svc := newTestService(t, nil)

	tx := &core.Transaction{Type: core.TypeExpense, Amount: 10, Category: "交通", Date: "2024-12-25"}
	if err := svc.AddTransaction(context.Background(), tx); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
}

func TestUpdateTransactionMissing(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub)

	tx := &core.Transaction{ID: 9999, Type: core.TypeExpense, Amount: 10, Category: "交通", Date: "2024-12-25"}
	found, err := svc.UpdateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if found {
		t.Error("found = true for missing ID")
	}
	if len(pub.published) != 0 {
		t.Error("nothing should be published for a missing ID")
	}
}

func TestImportExportCSV(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	in := "类型,分类,金额,日期,备注\n" +
		"支出,餐饮,35.50,2024-12-25,午饭\n" +
		"收入,工资,5000.00,2024-12-01,\n" +
		"支出,餐饮,-1.00,2024-12-25,negative\n"

	imported, skipped, err := svc.ImportCSV(ctx, strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Fatalf("imported = %d skipped = %d, want 2 and 1", imported, skipped)
	}
	if len(pub.published) != 2 {
		t.Errorf("published %d events, want 2", len(pub.published))
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "午饭") || !strings.Contains(out, "工资") {
		t.Errorf("export missing imported rows:\n%s", out)
	}
	if strings.Contains(out, "negative") {
		t.Error("skipped row leaked into export")
	}
}
