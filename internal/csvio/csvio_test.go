package csvio

import (
	"bytes"
	"strings"
	"testing"

	"pocketledger/internal/core"
)

func TestExportFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, []core.Transaction{
		{Type: core.TypeExpense, Amount: 35.5, Category: "餐饮-快餐", Note: "午饭", Date: "2024-12-25"},
		{Type: core.TypeIncome, Amount: 5000, Category: "工资", Note: "含逗号,的备注", Date: "2024-12-01"},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\ufeff") {
		t.Error("output missing UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "类型,分类,金额,日期,备注" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "支出,餐饮-快餐,35.50,2024-12-25,午饭" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"含逗号,的备注"`) {
		t.Errorf("comma-bearing note not quoted: %q", lines[2])
	}
}

func TestImportAcceptsLabelsAndTokens(t *testing.T) {
	in := "\ufeff类型,分类,金额,日期,备注\n" +
		"支出,餐饮,35.50,2024-12-25,午饭\n" +
		"income,工资,5000.00,2024-12-01,\n"

	result, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", result.Skipped)
	}
	if len(result.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(result.Transactions))
	}
	if result.Transactions[0].Type != core.TypeExpense {
		t.Errorf("row 1 type = %q", result.Transactions[0].Type)
	}
	if result.Transactions[1].Type != core.TypeIncome {
		t.Errorf("row 2 type = %q", result.Transactions[1].Type)
	}
	if result.Transactions[0].Amount != 35.5 {
		t.Errorf("row 1 amount = %v", result.Transactions[0].Amount)
	}
}

func TestImportSkipsInvalidRows(t *testing.T) {
	in := "类型,分类,金额,日期,备注\n" +
		"转账,其他,10.00,2024-12-25,unknown type\n" +
		"支出,餐饮,abc,2024-12-25,bad amount\n" +
		"支出,餐饮,-5.00,2024-12-25,negative\n" +
		"支出,餐饮,10.00,25/12/2024,bad date\n" +
		"支出,餐饮,10.00\n" +
		"支出,餐饮,10.00,2024-12-25,ok\n"

	result, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Skipped != 5 {
		t.Errorf("Skipped = %d, want 5", result.Skipped)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(result.Transactions))
	}
	if result.Transactions[0].Note != "ok" {
		t.Errorf("kept wrong row: %+v", result.Transactions[0])
	}
}

func TestRoundTrip(t *testing.T) {
	orig := []core.Transaction{
		{Type: core.TypeExpense, Amount: 12.34, Category: "交通", Note: "地铁", Date: "2024-11-02"},
		{Type: core.TypeIncome, Amount: 200, Category: "兼职", Note: "", Date: "2024-11-03"},
	}

	var buf bytes.Buffer
	if err := Export(&buf, orig); err != nil {
		t.Fatalf("Export: %v", err)
	}
	result, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.Transactions) != len(orig) {
		t.Fatalf("got %d transactions, want %d", len(result.Transactions), len(orig))
	}
	for i, got := range result.Transactions {
		want := orig[i]
		if got.Type != want.Type || got.Amount != want.Amount ||
			got.Category != want.Category || got.Note != want.Note || got.Date != want.Date {
			t.Errorf("row %d = %+v, want %+v", i, got, want)
		}
	}
}
