package storage

import (
	"context"
	"fmt"
	"log/slog"

	"pocketledger/internal/core"
)

// Default task ordering: active statuses first, then urgency, newest
// creation last among equals.
const todoOrder = `
	CASE status WHEN 'in_progress' THEN 1 WHEN 'not_started' THEN 2 WHEN 'completed' THEN 3 ELSE 2 END,
	CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END,
	created_at DESC`

// Same ordering without the creation-time tiebreak, used for today's view.
const todoOrderNoCreated = `
	CASE status WHEN 'in_progress' THEN 1 WHEN 'not_started' THEN 2 WHEN 'completed' THEN 3 ELSE 2 END,
	CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END`

const todoColumns = `id, title, description, status, priority, due_date, tags, date, created_at, assignee, attachment`

// AddTodoItem inserts item with a defaulted status and a store-assigned
// creation timestamp, and fills in the identifier.
func (s *Store) AddTodoItem(ctx context.Context, item *core.TodoItem) error {
	item.Status = item.Status.OrDefault()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (title, description, status, priority, due_date, tags, date, assignee, attachment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Description, string(item.Status), string(item.Priority),
		item.DueDate, item.Tags, item.Date, item.Assignee, item.Attachment)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("todo insert id: %w", err)
	}
	item.ID = id

	slog.DebugContext(ctx, "Todo saved", "id", item.ID, "title", item.Title, "status", item.Status)
	return nil
}

func (s *Store) UpdateTodoItem(ctx context.Context, item core.TodoItem) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, status = ?, priority = ?, due_date = ?,
		 tags = ?, date = ?, assignee = ?, attachment = ? WHERE id = ?`,
		item.Title, item.Description, string(item.Status.OrDefault()), string(item.Priority),
		item.DueDate, item.Tags, item.Date, item.Assignee, item.Attachment, item.ID)
	if err != nil {
		return false, fmt.Errorf("update todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update todo rows: %w", err)
	}
	return n > 0, nil
}

// UpdateTodoStatus changes only the lifecycle state of one item.
func (s *Store) UpdateTodoStatus(ctx context.Context, id int64, status core.TodoStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET status = ? WHERE id = ?`, string(status.OrDefault()), id)
	if err != nil {
		return false, fmt.Errorf("update todo status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update todo status rows: %w", err)
	}
	return n > 0, nil
}

func (s *Store) DeleteTodoItem(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (s *Store) TodoItems(ctx context.Context) ([]core.TodoItem, error) {
	return s.queryTodos(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY `+todoOrder)
}

func (s *Store) TodoItemsByStatus(ctx context.Context, status core.TodoStatus) ([]core.TodoItem, error) {
	return s.queryTodos(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE status = ? ORDER BY
		 CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END,
		 created_at DESC`, string(status))
}

func (s *Store) TodoItemsByDate(ctx context.Context, date string) ([]core.TodoItem, error) {
	return s.queryTodos(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE date = ? ORDER BY `+todoOrderNoCreated, date)
}

// TodayTodoItems lists items created today or due today.
func (s *Store) TodayTodoItems(ctx context.Context) ([]core.TodoItem, error) {
	today := core.Today()
	return s.queryTodos(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE date = ? OR due_date = ? ORDER BY `+todoOrderNoCreated,
		today, today)
}

func (s *Store) TodoCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM todos`)
}

// PendingTodoCount counts every item that is not completed.
func (s *Store) PendingTodoCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM todos WHERE status != 'completed'`)
}

func (s *Store) TodoCountByStatus(ctx context.Context, status core.TodoStatus) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM todos WHERE status = ?`, string(status))
}

func (s *Store) queryTodos(ctx context.Context, query string, args ...any) ([]core.TodoItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	list := []core.TodoItem{}
	for rows.Next() {
		var item core.TodoItem
		var status, priority string
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &status, &priority,
			&item.DueDate, &item.Tags, &item.Date, &item.CreatedAt,
			&item.Assignee, &item.Attachment); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		item.Status = core.TodoStatus(status).OrDefault()
		item.Priority = core.Priority(priority)
		list = append(list, item)
	}
	return list, rows.Err()
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
