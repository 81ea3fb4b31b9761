package http

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"pocketledger/internal/core"
)

type transactionDTO struct {
	ID       int64   `json:"id,omitempty"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Date     string  `json:"date"`
}

func toTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:       t.ID,
		Type:     string(t.Type),
		Amount:   t.Amount,
		Category: t.Category,
		Note:     t.Note,
		Date:     t.Date,
	}
}

func (d transactionDTO) toCore() (core.Transaction, error) {
	typ, ok := core.ParseTxType(d.Type)
	if !ok {
		return core.Transaction{}, core.ErrInvalidType
	}
	return core.Transaction{
		ID:       d.ID,
		Type:     typ,
		Amount:   d.Amount,
		Category: d.Category,
		Note:     d.Note,
		Date:     d.Date,
	}, nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func validationStatus(err error) (int, bool) {
	for _, sentinel := range []error{
		core.ErrInvalidType, core.ErrInvalidAmount, core.ErrEmptyCategory,
		core.ErrInvalidDate, core.ErrEmptyTitle, core.ErrEmptyContent,
	} {
		if errors.Is(err, sentinel) {
			return http.StatusUnprocessableEntity, true
		}
	}
	return 0, false
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var (
		list []core.Transaction
		err  error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		if !core.ValidDate(date) {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		list, err = s.store.TransactionsByDate(r.Context(), date)
	} else {
		list, err = s.store.Transactions(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	out := make([]transactionDTO, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto transactionDTO
	if err := readJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := dto.toCore()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.service.AddTransaction(r.Context(), &t); err != nil {
		if status, ok := validationStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}

	s.invalidateStats()
	writeJSON(w, http.StatusCreated, toTransactionDTO(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var dto transactionDTO
	if err := readJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := dto.toCore()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	t.ID = id

	found, err := s.service.UpdateTransaction(r.Context(), &t)
	if err != nil {
		if status, ok := validationStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Update transaction failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	s.invalidateStats()
	writeJSON(w, http.StatusOK, toTransactionDTO(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.service.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	s.invalidateStats()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := s.service.ExportCSV(r.Context(), w); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	imported, skipped, err := s.service.ImportCSV(r.Context(), http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV import failed", "error", err)
		writeError(w, http.StatusBadRequest, "import failed")
		return
	}
	s.invalidateStats()
	writeJSON(w, http.StatusOK, map[string]int{"imported": imported, "skipped": skipped})
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

func monthParam(r *http.Request) (string, bool) {
	month := r.URL.Query().Get("month")
	if month == "" {
		return core.CurrentMonth(), true
	}
	return month, monthPattern.MatchString(month)
}

func (s *Server) handleMonthlySum(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	s.cachedJSON(w, "monthly:"+month, func() (any, error) {
		income, err := s.store.MonthlySum(r.Context(), core.TypeIncome, month)
		if err != nil {
			return nil, err
		}
		expense, err := s.store.MonthlySum(r.Context(), core.TypeExpense, month)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"month":   month,
			"income":  income,
			"expense": expense,
			"balance": income - expense,
		}, nil
	})
}

func (s *Server) handleDailySummaries(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	s.cachedJSON(w, "daily:"+month, func() (any, error) {
		summaries, err := s.store.DailySummaries(r.Context(), month)
		if err != nil {
			return nil, err
		}
		out := make(map[string]map[string]float64, len(summaries))
		for date, t := range summaries {
			out[date] = map[string]float64{"income": t.Income, "expense": t.Expense}
		}
		return out, nil
	})
}

type categoryStatDTO struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	s.cachedJSON(w, "categories:"+month, func() (any, error) {
		stats, err := s.store.CategoryStats(r.Context(), month)
		if err != nil {
			return nil, err
		}
		out := make([]categoryStatDTO, 0, len(stats))
		for _, st := range stats {
			out = append(out, categoryStatDTO{Category: st.Category, Amount: st.Amount, Percentage: st.Percentage})
		}
		return out, nil
	})
}
