package storage

import (
	"context"
	"fmt"
	"log/slog"

	"pocketledger/internal/core"
)

func (s *Store) AddDiaryEntry(ctx context.Context, e *core.DiaryEntry) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO diary (title, content, mood, date) VALUES (?, ?, ?, ?)`,
		e.Title, e.Content, string(e.Mood), e.Date)
	if err != nil {
		return fmt.Errorf("insert diary entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("diary insert id: %w", err)
	}
	e.ID = id

	slog.DebugContext(ctx, "Diary entry saved", "id", e.ID, "date", e.Date)
	return nil
}

func (s *Store) UpdateDiaryEntry(ctx context.Context, e core.DiaryEntry) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE diary SET title = ?, content = ?, mood = ?, date = ? WHERE id = ?`,
		e.Title, e.Content, string(e.Mood), e.Date, e.ID)
	if err != nil {
		return false, fmt.Errorf("update diary entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update diary rows: %w", err)
	}
	return n > 0, nil
}

func (s *Store) DeleteDiaryEntry(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM diary WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	return nil
}

// DiaryEntries lists every entry, most recent date first.
func (s *Store) DiaryEntries(ctx context.Context) ([]core.DiaryEntry, error) {
	return s.queryDiary(ctx,
		`SELECT id, title, content, mood, date, created_at FROM diary ORDER BY date DESC, id DESC`)
}

func (s *Store) DiaryEntriesByDate(ctx context.Context, date string) ([]core.DiaryEntry, error) {
	return s.queryDiary(ctx,
		`SELECT id, title, content, mood, date, created_at FROM diary WHERE date = ? ORDER BY id DESC`, date)
}

func (s *Store) DiaryCount(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM diary`)
}

func (s *Store) queryDiary(ctx context.Context, query string, args ...any) ([]core.DiaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query diary: %w", err)
	}
	defer rows.Close()

	list := []core.DiaryEntry{}
	for rows.Next() {
		var e core.DiaryEntry
		var mood string
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &mood, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan diary entry: %w", err)
		}
		e.Mood = core.Mood(mood)
		list = append(list, e)
	}
	return list, rows.Err()
}
