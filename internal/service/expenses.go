package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/importer"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

// expenseRequest is the JSON body for creating or updating an expense.
type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// toCandidate funnels the request through the same validation path imports
// use, so API writes and bulk imports accept exactly the same records.
func (req *expenseRequest) toCandidate() importer.ExpenseCandidate {
	return importer.ExpenseCandidate{
		Date:        req.Date,
		Description: req.Description,
		Amount:      strconv.FormatFloat(req.Amount, 'f', -1, 64),
		Category:    req.Category,
	}
}

type listExpensesResponse struct {
	Expenses      []*model.Expense `json:"expenses"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

func (s *FinanceService) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	expense, rejection := importer.ValidateExpense(req.toCandidate(), importer.RejectUnknownCategory)
	if rejection != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%s: %s", rejection.Reason, rejection.Detail))
		return
	}

	if err := s.store.CreateExpense(r.Context(), claims.UID, &expense); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &expense)
}

func (s *FinanceService) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	expense, err := s.store.GetExpense(r.Context(), claims.UID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *FinanceService) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	expense, rejection := importer.ValidateExpense(req.toCandidate(), importer.RejectUnknownCategory)
	if rejection != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%s: %s", rejection.Reason, rejection.Detail))
		return
	}
	expense.ID = r.PathValue("id")

	if err := s.store.UpdateExpense(r.Context(), claims.UID, &expense); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &expense)
}

func (s *FinanceService) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.store.DeleteExpense(r.Context(), claims.UID, r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *FinanceService) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	q := r.URL.Query()
	startDate, err := parseQueryDate(q.Get("startDate"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("startDate: %w", err))
		return
	}
	endDate, err := parseQueryDate(q.Get("endDate"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("endDate: %w", err))
		return
	}

	var pageSize int32
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("pageSize: %w", err))
			return
		}
		pageSize = int32(n)
	}
	pageSize = auth.NormalizePageSize(pageSize)

	expenses, nextToken, err := s.store.ListExpenses(r.Context(), claims.UID, startDate, endDate, pageSize, q.Get("pageToken"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if expenses == nil {
		expenses = []*model.Expense{}
	}
	writeJSON(w, http.StatusOK, listExpensesResponse{Expenses: expenses, NextPageToken: nextToken})
}

func (s *FinanceService) handleExportExpensesCSV(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	expenses, err := s.listAllExpenses(r.Context(), claims.UID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Date", "Description", "Amount", "Category"})
	for _, e := range expenses {
		date := e.Date
		if t := e.DateTime(); !t.IsZero() {
			date = t.Format("2006-01-02")
		}
		_ = cw.Write([]string{
			date,
			e.Description,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			string(e.Category),
		})
	}
	cw.Flush()
}

// listAllExpenses walks every page of the owner's expenses.
func (s *FinanceService) listAllExpenses(ctx context.Context, ownerID string) ([]*model.Expense, error) {
	var all []*model.Expense
	pageToken := ""
	for {
		page, next, err := s.store.ListExpenses(ctx, ownerID, nil, nil, 500, pageToken)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		pageToken = next
	}
}

// parseQueryDate accepts RFC 3339 or plain YYYY-MM-DD query values. Plain
// dates expand to the start of the day, or the end of it for range ends.
func parseQueryDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}
