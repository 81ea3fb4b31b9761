package http

import (
	"log/slog"
	"net/http"

	"pocketledger/internal/core"
)

type todoDTO struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Date        string `json:"date,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Attachment  string `json:"attachment,omitempty"`
	Overdue     bool   `json:"overdue"`
}

func toTodoDTO(item core.TodoItem) todoDTO {
	return todoDTO{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		Priority:    string(item.Priority),
		DueDate:     item.DueDate,
		Tags:        item.Tags,
		Date:        item.Date,
		CreatedAt:   item.CreatedAt,
		Assignee:    item.Assignee,
		Attachment:  item.Attachment,
		Overdue:     item.IsOverdue(),
	}
}

func (d todoDTO) toCore() core.TodoItem {
	return core.TodoItem{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      core.TodoStatus(d.Status).OrDefault(),
		Priority:    core.Priority(d.Priority),
		DueDate:     d.DueDate,
		Tags:        d.Tags,
		Date:        d.Date,
		Assignee:    d.Assignee,
		Attachment:  d.Attachment,
	}
}

func writeTodoList(w http.ResponseWriter, items []core.TodoItem) {
	out := make([]todoDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toTodoDTO(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	var (
		items []core.TodoItem
		err   error
	)
	switch {
	case r.URL.Query().Get("status") != "":
		status := core.TodoStatus(r.URL.Query().Get("status"))
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		items, err = s.store.TodoItemsByStatus(r.Context(), status)
	case r.URL.Query().Get("date") != "":
		date := r.URL.Query().Get("date")
		if !core.ValidDate(date) {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		items, err = s.store.TodoItemsByDate(r.Context(), date)
	default:
		items, err = s.store.TodoItems(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "List todos failed", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeTodoList(w, items)
}

func (s *Server) handleTodayTodos(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.TodayTodoItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Today todos failed", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeTodoList(w, items)
}

func (s *Server) handleTodoCounts(w http.ResponseWriter, r *http.Request) {
	total, err := s.store.TodoCount(r.Context())
	if err == nil {
		var pending int
		pending, err = s.store.PendingTodoCount(r.Context())
		if err == nil {
			writeJSON(w, http.StatusOK, map[string]int{"total": total, "pending": pending})
			return
		}
	}
	slog.ErrorContext(r.Context(), "Todo counts failed", "error", err)
	writeError(w, http.StatusInternalServerError, "query failed")
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var dto todoDTO
	if err := readJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := dto.toCore()
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !item.Priority.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "invalid priority")
		return
	}
	if err := s.store.AddTodoItem(r.Context(), &item); err != nil {
		slog.ErrorContext(r.Context(), "Create todo failed", "error", err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusCreated, toTodoDTO(item))
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var dto todoDTO
	if err := readJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item := dto.toCore()
	item.ID = id
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !item.Priority.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "invalid priority")
		return
	}

	found, err := s.store.UpdateTodoItem(r.Context(), item)
	if err != nil {
		slog.ErrorContext(r.Context(), "Update todo failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	writeJSON(w, http.StatusOK, toTodoDTO(item))
}

func (s *Server) handleUpdateTodoStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := core.TodoStatus(body.Status)
	if !status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}

	found, err := s.store.UpdateTodoStatus(r.Context(), id, status)
	if err != nil {
		slog.ErrorContext(r.Context(), "Update todo status failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteTodoItem(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete todo failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
