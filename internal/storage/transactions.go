package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"pocketledger/internal/core"
)

// AddTransaction inserts t and fills in the store-assigned identifier.
// The row is written as supplied; amounts are never rounded.
func (s *Store) AddTransaction(ctx context.Context, t *core.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (type, amount, category, note, date) VALUES (?, ?, ?, ?, ?)`,
		string(t.Type), t.Amount, t.Category, t.Note, t.Date)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id

	slog.DebugContext(ctx, "Transaction saved",
		"id", t.ID, "type", t.Type, "amount", t.Amount, "date", t.Date)
	return nil
}

// UpdateTransaction updates by identifier. A missing identifier is a
// normal outcome and reports false without an error.
func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, amount = ?, category = ?, note = ?, date = ? WHERE id = ?`,
		string(t.Type), t.Amount, t.Category, t.Note, t.Date, t.ID)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update transaction rows: %w", err)
	}
	return n > 0, nil
}

// DeleteTransaction removes by identifier; deleting a missing id is a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// TransactionByID fetches a single transaction. The bool reports whether
// a row with that id exists.
func (s *Store) TransactionByID(ctx context.Context, id int64) (core.Transaction, bool, error) {
	var t core.Transaction
	var typ string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, amount, category, note, date FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &typ, &t.Amount, &t.Category, &t.Note, &t.Date)
	if err == sql.ErrNoRows {
		return core.Transaction{}, false, nil
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction: %w", err)
	}
	t.Type = core.TxType(typ)
	return t, true, nil
}

// Transactions lists every transaction, most recent date first, insertion
// order breaking ties.
func (s *Store) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT id, type, amount, category, note, date FROM transactions ORDER BY date DESC, id DESC`)
}

// TransactionsByDate lists the transactions of one calendar date.
func (s *Store) TransactionsByDate(ctx context.Context, date string) ([]core.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT id, type, amount, category, note, date FROM transactions WHERE date = ? ORDER BY id DESC`, date)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	list := []core.Transaction{}
	for rows.Next() {
		var t core.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &typ, &t.Amount, &t.Category, &t.Note, &t.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TxType(typ)
		list = append(list, t)
	}
	return list, rows.Err()
}
