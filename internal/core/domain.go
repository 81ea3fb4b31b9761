package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used everywhere: stored columns,
// aggregation prefixes, prompt text and CSV rows.
const DateLayout = "2006-01-02"

// MonthLayout is the year-month prefix used by the aggregation queries.
const MonthLayout = "2006-01"

type (
	// Transaction is a single income or expense record.
	// ID is assigned by the store on insert; zero means "not persisted yet".
	Transaction struct {
		ID       int64
		Type     TxType
		Amount   float64
		Category string
		Note     string
		Date     string
	}

	// TodoItem is a task record. Everything past Title is optional.
	TodoItem struct {
		ID          int64
		Title       string
		Description string
		Status      TodoStatus
		Priority    Priority
		DueDate     string
		Tags        string // comma-joined
		Date        string // creation date
		CreatedAt   string // store-assigned timestamp
		Assignee    string
		Attachment  string
	}

	// DiaryEntry is a dated journal record.
	DiaryEntry struct {
		ID        int64
		Title     string
		Content   string
		Mood      Mood
		Date      string
		CreatedAt string
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyContent  = errors.New("empty content")
)

// Today returns the current calendar date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// CurrentMonth returns the current year-month prefix.
func CurrentMonth() string {
	return time.Now().Format(MonthLayout)
}

// ValidDate reports whether s is a real calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParentCategory returns the parent segment of a composite "Parent-Child"
// category, or the whole string when there is no separator.
func ParentCategory(category string) string {
	if i := strings.Index(category, "-"); i >= 0 {
		return category[:i]
	}
	return category
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidDate(t.Date) {
		return ErrInvalidDate
	}
	return nil
}

func (t TodoItem) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.DueDate != "" && !ValidDate(t.DueDate) {
		return ErrInvalidDate
	}
	return nil
}

// TagList splits the comma-joined tags field, dropping empty segments.
func (t TodoItem) TagList() []string {
	if strings.TrimSpace(t.Tags) == "" {
		return nil
	}
	var out []string
	for _, tag := range strings.Split(t.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// HasDueDate reports whether a due date is set.
func (t TodoItem) HasDueDate() bool {
	return t.DueDate != ""
}

// IsOverdue reports whether the due date has passed. The comparison is
// date-only against today, same formatter on both sides.
func (t TodoItem) IsOverdue() bool {
	if !t.HasDueDate() || t.Status == StatusCompleted {
		return false
	}
	due, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return false
	}
	today, _ := time.Parse(DateLayout, Today())
	return due.Before(today)
}

func (e DiaryEntry) Validate() error {
	if strings.TrimSpace(e.Content) == "" {
		return ErrEmptyContent
	}
	if !ValidDate(e.Date) {
		return ErrInvalidDate
	}
	return nil
}
