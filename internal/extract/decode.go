package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"pocketledger/internal/core"
)

// CleanModelJSON strips a markdown code-fence wrapper from model output.
// Models sometimes wrap the reply in ```json ... ``` despite instructions.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// normalizeOptional maps an absent value or the literal "null" token (which
// some models emit instead of omitting the field) to the empty string.
func normalizeOptional(s string) string {
	if s == "null" {
		return ""
	}
	return s
}

type billPayload struct {
	Type     string   `json:"type"`
	Amount   *float64 `json:"amount"`
	Category string   `json:"category"`
	Note     string   `json:"note"`
	Date     string   `json:"date"`
}

// DecodeBill parses a model reply into a transient Transaction. All
// required fields must parse or the whole call fails; optional fields get
// their declared defaults (note empty, date today).
func DecodeBill(content, today string) (core.Transaction, error) {
	var p billPayload
	if err := json.Unmarshal([]byte(CleanModelJSON(content)), &p); err != nil {
		return core.Transaction{}, fmt.Errorf("decode bill json: %w", err)
	}

	typ, ok := core.ParseTxType(p.Type)
	if !ok {
		return core.Transaction{}, fmt.Errorf("bill type %q is not income or expense", p.Type)
	}
	if p.Amount == nil {
		return core.Transaction{}, fmt.Errorf("bill is missing amount")
	}
	if *p.Amount < 0 {
		return core.Transaction{}, fmt.Errorf("bill amount %v is negative", *p.Amount)
	}
	category := normalizeOptional(strings.TrimSpace(p.Category))
	if category == "" {
		return core.Transaction{}, fmt.Errorf("bill is missing category")
	}

	date := normalizeOptional(strings.TrimSpace(p.Date))
	if date == "" {
		date = today
	}
	if !core.ValidDate(date) {
		return core.Transaction{}, fmt.Errorf("bill date %q is not yyyy-MM-dd", date)
	}

	return core.Transaction{
		Type:     typ,
		Amount:   *p.Amount,
		Category: category,
		Note:     normalizeOptional(p.Note),
		Date:     date,
	}, nil
}

type taskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	Tags        string `json:"tags"`
}

// DecodeTask parses a model reply into a transient TodoItem. Title is the
// only required field; priority defaults to medium, the creation date is
// today and the status starts at not_started.
func DecodeTask(content, today string) (core.TodoItem, error) {
	var p taskPayload
	if err := json.Unmarshal([]byte(CleanModelJSON(content)), &p); err != nil {
		return core.TodoItem{}, fmt.Errorf("decode task json: %w", err)
	}

	title := normalizeOptional(strings.TrimSpace(p.Title))
	if title == "" {
		return core.TodoItem{}, fmt.Errorf("task is missing title")
	}

	priority := core.Priority(normalizeOptional(p.Priority))
	if priority == core.PriorityUnset {
		priority = core.PriorityMedium
	}
	if !priority.Valid() {
		return core.TodoItem{}, fmt.Errorf("task priority %q is not high, medium or low", p.Priority)
	}

	dueDate := normalizeOptional(strings.TrimSpace(p.DueDate))
	if dueDate != "" && !core.ValidDate(dueDate) {
		return core.TodoItem{}, fmt.Errorf("task due date %q is not yyyy-MM-dd", dueDate)
	}

	return core.TodoItem{
		Title:       title,
		Description: normalizeOptional(p.Description),
		Status:      core.StatusNotStarted,
		Priority:    priority,
		DueDate:     dueDate,
		Tags:        normalizeOptional(p.Tags),
		Date:        today,
	}, nil
}
