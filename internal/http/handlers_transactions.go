package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finvision/internal/core"
)

type transactionResponse struct {
	ID          int64                `json:"id"`
	Amount      core.Money           `json:"amount"`
	Date        core.Date            `json:"date"`
	Description string               `json:"description"`
	Type        core.TransactionType `json:"type"`
	CategoryID  int64                `json:"category_id"`
	IsRecurring bool                 `json:"is_recurring"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Date:        t.Date,
		Description: t.Description,
		Type:        t.Type,
		CategoryID:  t.CategoryID,
		IsRecurring: t.IsRecurring,
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionResponses(list []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type transactionRequest struct {
	Amount      core.Money           `json:"amount"`
	Date        core.Date            `json:"date"`
	Description string               `json:"description"`
	Type        core.TransactionType `json:"type"`
	CategoryID  int64                `json:"category_id"`
	IsRecurring bool                 `json:"is_recurring"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := s.transactions.Create(r.Context(), core.Transaction{
		UserID:      userID(r),
		Amount:      req.Amount,
		Date:        req.Date,
		Description: sanitizeInput(req.Description),
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	respondJSON(w, http.StatusCreated, toTransactionResponse(stored))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	list, err := s.store.ListTransactions(r.Context(), userID(r), limit, offset)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(list))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	stored, err := s.store.GetTransaction(r.Context(), id, userID(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(stored))
}

type transactionPatchRequest struct {
	Amount      *core.Money           `json:"amount"`
	Date        *core.Date            `json:"date"`
	Description *string               `json:"description"`
	Type        *core.TransactionType `json:"type"`
	CategoryID  *int64                `json:"category_id"`
	IsRecurring *bool                 `json:"is_recurring"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req transactionPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := core.TransactionPatch{
		Amount:      req.Amount,
		Date:        req.Date,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		IsRecurring: req.IsRecurring,
	}
	if req.Description != nil {
		desc := sanitizeInput(*req.Description)
		patch.Description = &desc
	}

	stored, err := s.transactions.Update(r.Context(), id, userID(r), patch)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	respondJSON(w, http.StatusOK, toTransactionResponse(stored))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id, userID(r)); err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	w.WriteHeader(http.StatusNoContent)
}

// invalidateDashboard drops every cached dashboard month for the user.
func (s *Server) invalidateDashboard(userID int64) {
	s.dashCache.InvalidatePrefix(fmt.Sprintf("dashboard:%d:", userID))
}
