package storage

import (
	"context"
	"math"
	"testing"

	"pocketledger/internal/core"
)

func TestMonthlySum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addTx(t, s, core.TypeExpense, 100, "餐饮-快餐", "2024-12-01")
	addTx(t, s, core.TypeExpense, 200, "交通", "2024-12-15")
	addTx(t, s, core.TypeIncome, 5000, "职业收入-工资", "2024-12-10")
	addTx(t, s, core.TypeExpense, 999, "餐饮", "2025-01-01") // other month

	got, err := s.MonthlySum(ctx, core.TypeExpense, "2024-12")
	if err != nil {
		t.Fatalf("monthly sum: %v", err)
	}
	if got != 300 {
		t.Fatalf("expense sum = %v, want 300", got)
	}

	got, err = s.MonthlySum(ctx, core.TypeIncome, "2024-12")
	if err != nil || got != 5000 {
		t.Fatalf("income sum = %v err %v, want 5000", got, err)
	}

	got, err = s.MonthlySum(ctx, core.TypeExpense, "2023-01")
	if err != nil {
		t.Fatalf("empty month should not error: %v", err)
	}
	if got != 0 {
		t.Fatalf("empty month sum = %v, want 0", got)
	}
}

func TestDailySummaries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addTx(t, s, core.TypeExpense, 30, "餐饮", "2024-12-01")
	addTx(t, s, core.TypeExpense, 20, "交通", "2024-12-01")
	addTx(t, s, core.TypeIncome, 100, "其他收入-红包", "2024-12-01")
	addTx(t, s, core.TypeExpense, 50, "购物", "2024-12-03")

	summaries, err := s.DailySummaries(ctx, "2024-12")
	if err != nil {
		t.Fatalf("daily summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d dates, want 2", len(summaries))
	}
	first := summaries["2024-12-01"]
	if first.Income != 100 || first.Expense != 50 {
		t.Fatalf("2024-12-01 = %+v, want income 100 expense 50", first)
	}
	third := summaries["2024-12-03"]
	if third.Income != 0 || third.Expense != 50 {
		t.Fatalf("2024-12-03 = %+v, want income 0 expense 50", third)
	}
}

func TestCategoryStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addTx(t, s, core.TypeExpense, 100, "餐饮-快餐", "2024-12-01")
	addTx(t, s, core.TypeExpense, 200, "餐饮-快餐", "2024-12-02")
	addTx(t, s, core.TypeExpense, 100, "交通", "2024-12-03")
	addTx(t, s, core.TypeIncome, 9999, "职业收入-工资", "2024-12-04") // income never counts

	stats, err := s.CategoryStats(ctx, "2024-12")
	if err != nil {
		t.Fatalf("category stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	if stats[0].Category != "餐饮" || stats[0].Amount != 300 || stats[0].Percentage != 75.0 {
		t.Fatalf("first stat = %+v, want 餐饮 300 75%%", stats[0])
	}
	if stats[1].Category != "交通" || stats[1].Amount != 100 || stats[1].Percentage != 25.0 {
		t.Fatalf("second stat = %+v, want 交通 100 25%%", stats[1])
	}

	var sum float64
	for _, st := range stats {
		sum += st.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}
}

func TestCategoryStatsZeroExpense(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addTx(t, s, core.TypeIncome, 5000, "职业收入-工资", "2024-12-10")

	stats, err := s.CategoryStats(ctx, "2024-12")
	if err != nil {
		t.Fatalf("zero expense month must not fail: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("zero expense month should return no stats, got %+v", stats)
	}
}
