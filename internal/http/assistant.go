package http

import (
	"net/http"
	"strings"

	"pocketledger/internal/extract"
)

type parseRequest struct {
	Text string `json:"text"`
}

// parseResponse holds whichever record kind the text produced. The record
// is transient; the client reviews it and saves through the normal CRUD
// endpoints.
type parseResponse struct {
	Kind        string          `json:"kind"`
	Transaction *transactionDTO `json:"transaction,omitempty"`
	Todo        *todoDTO        `json:"todo,omitempty"`
}

// handleAssistantParse routes free-form text to the bill or task pipeline
// and waits for the single result.
func (s *Server) handleAssistantParse(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var req parseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusUnprocessableEntity, "empty text")
		return
	}

	if extract.IsTaskRequest(text) {
		result := <-s.pipeline.ParseTask(r.Context(), text)
		if result.Err != nil {
			writeError(w, http.StatusBadGateway, "task parse failed: "+result.Err.Error())
			return
		}
		dto := toTodoDTO(result.Value)
		writeJSON(w, http.StatusOK, parseResponse{Kind: "task", Todo: &dto})
		return
	}

	result := <-s.pipeline.ParseBill(r.Context(), text)
	if result.Err != nil {
		writeError(w, http.StatusBadGateway, "bill parse failed: "+result.Err.Error())
		return
	}
	dto := toTransactionDTO(result.Value)
	writeJSON(w, http.StatusOK, parseResponse{Kind: "bill", Transaction: &dto})
}
