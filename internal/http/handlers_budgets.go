package http

import (
	"net/http"

	"finvision/internal/core"
)

type budgetResponse struct {
	ID                int64             `json:"id"`
	ExpenseCategoryID int64             `json:"expense_category_id"`
	Amount            core.Money        `json:"amount"`
	Period            core.BudgetPeriod `json:"period"`
	StartDate         core.Date         `json:"start_date"`
	EndDate           core.Date         `json:"end_date"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:                b.ID,
		ExpenseCategoryID: b.ExpenseCategoryID,
		Amount:            b.Amount,
		Period:            b.Period,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
	}
}

type budgetRequest struct {
	ExpenseCategoryID int64             `json:"expense_category_id"`
	Amount            core.Money        `json:"amount"`
	Period            core.BudgetPeriod `json:"period"`
	StartDate         core.Date         `json:"start_date"`
	EndDate           core.Date         `json:"end_date"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget := core.Budget{
		UserID:            userID(r),
		ExpenseCategoryID: req.ExpenseCategoryID,
		Amount:            req.Amount,
		Period:            req.Period,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	}
	if err := budget.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	stored, err := s.store.CreateBudget(r.Context(), budget)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	respondJSON(w, http.StatusCreated, toBudgetResponse(stored))
}

// handleListBudgets lists the user's budgets. With year/month query
// parameters only budgets active in that month are returned.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	var (
		list []core.Budget
		err  error
	)
	if r.URL.Query().Has("year") || r.URL.Query().Has("month") {
		year, month := parseYearMonth(r)
		period, perr := core.ResolvePeriod(year, month)
		if perr != nil {
			respondDomainError(w, r, perr)
			return
		}
		list, err = s.store.ListActiveBudgets(r.Context(), userID(r), period)
	} else {
		list, err = s.store.ListBudgets(r.Context(), userID(r))
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	stored, err := s.store.GetBudget(r.Context(), id, userID(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(stored))
}

type budgetPatchRequest struct {
	ExpenseCategoryID *int64             `json:"expense_category_id"`
	Amount            *core.Money        `json:"amount"`
	Period            *core.BudgetPeriod `json:"period"`
	StartDate         *core.Date         `json:"start_date"`
	EndDate           *core.Date         `json:"end_date"`
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req budgetPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Amount != nil {
		if err := req.Amount.Validate(); err != nil {
			respondDomainError(w, r, err)
			return
		}
	}
	if req.Period != nil {
		if err := req.Period.Validate(); err != nil {
			respondDomainError(w, r, err)
			return
		}
	}

	stored, err := s.store.UpdateBudget(r.Context(), id, userID(r), core.BudgetPatch{
		ExpenseCategoryID: req.ExpenseCategoryID,
		Amount:            req.Amount,
		Period:            req.Period,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	respondJSON(w, http.StatusOK, toBudgetResponse(stored))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.store.DeleteBudget(r.Context(), id, userID(r)); err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	w.WriteHeader(http.StatusNoContent)
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleExpenseCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListExpenseCategories(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryResponses(list))
}

func (s *Server) handleIncomeCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListIncomeCategories(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryResponses(list))
}

func toCategoryResponses(list []core.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}
