package http

import (
	"log/slog"
	"net/http"

	"pocketledger/internal/core"
)

type diaryDTO struct {
	ID        int64  `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	Mood      string `json:"mood,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toDiaryDTO(e core.DiaryEntry) diaryDTO {
	return diaryDTO{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      string(e.Mood),
		Emoji:     e.Mood.Emoji(),
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
	}
}

func (d diaryDTO) toCore() core.DiaryEntry {
	return core.DiaryEntry{
		ID:      d.ID,
		Title:   d.Title,
		Content: d.Content,
		Mood:    core.Mood(d.Mood),
		Date:    d.Date,
	}
}

func (s *Server) handleListDiary(w http.ResponseWriter, r *http.Request) {
	var (
		entries []core.DiaryEntry
		err     error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		if !core.ValidDate(date) {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		entries, err = s.store.DiaryEntriesByDate(r.Context(), date)
	} else {
		entries, err = s.store.DiaryEntries(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "List diary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	out := make([]diaryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDiaryDTO(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDiary(w http.ResponseWriter, r *http.Request) {
	var dto diaryDTO
	if err := readJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := dto.toCore()
	if entry.Date == "" {
		entry.Date = core.Today()
	}
	if err := entry.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.AddDiaryEntry(r.Context(), &entry); err != nil {
		slog.ErrorContext(r.Context(), "Create diary entry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusCreated, toDiaryDTO(entry))
}

func (s *Server) handleUpdateDiary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var dto diaryDTO
	if err := readJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry := dto.toCore()
	entry.ID = id
	if err := entry.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	found, err := s.store.UpdateDiaryEntry(r.Context(), entry)
	if err != nil {
		slog.ErrorContext(r.Context(), "Update diary entry failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "diary entry not found")
		return
	}
	writeJSON(w, http.StatusOK, toDiaryDTO(entry))
}

func (s *Server) handleDeleteDiary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteDiaryEntry(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete diary entry failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
