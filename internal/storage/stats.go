package storage

import (
	"context"
	"fmt"

	"pocketledger/internal/core"
)

// MonthlySum totals the amounts of one transaction type inside a
// year-month prefix. No matching rows sums to zero, not an error.
func (s *Store) MonthlySum(ctx context.Context, typ core.TxType, yearMonth string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = ? AND date LIKE ?`,
		string(typ), yearMonth+"%").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("monthly sum: %w", err)
	}
	return total, nil
}

// DailySummaries returns one DailyTotal per date that has at least one
// transaction inside the month, income and expense summed independently.
func (s *Store) DailySummaries(ctx context.Context, yearMonth string) (map[string]core.DailyTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date,
		        SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END),
		        SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END)
		 FROM transactions WHERE date LIKE ? GROUP BY date`,
		yearMonth+"%")
	if err != nil {
		return nil, fmt.Errorf("daily summaries: %w", err)
	}
	defer rows.Close()

	summaries := map[string]core.DailyTotal{}
	for rows.Next() {
		var t core.DailyTotal
		if err := rows.Scan(&t.Date, &t.Income, &t.Expense); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		summaries[t.Date] = t
	}
	return summaries, rows.Err()
}

// CategoryStats groups the month's expenses by the parent segment of the
// category, ranked by amount with the share of the monthly total. With no
// expense in the month the list is empty; the percentage division is never
// attempted against a zero total.
func (s *Store) CategoryStats(ctx context.Context, yearMonth string) ([]core.CategoryStat, error) {
	total, err := s.MonthlySum(ctx, core.TypeExpense, yearMonth)
	if err != nil {
		return nil, err
	}
	stats := []core.CategoryStat{}
	if total == 0 {
		return stats, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT CASE WHEN instr(category, '-') > 0
		             THEN substr(category, 1, instr(category, '-') - 1)
		             ELSE category END AS main_category,
		        SUM(amount) AS total
		 FROM transactions
		 WHERE type = 'expense' AND date LIKE ?
		 GROUP BY main_category ORDER BY total DESC`,
		yearMonth+"%")
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st core.CategoryStat
		if err := rows.Scan(&st.Category, &st.Amount); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		st.Percentage = st.Amount / total * 100
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
