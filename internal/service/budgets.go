package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/budget"
	"github.com/codewithvis/Spend-Wise/internal/importer"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

// budgetView is a budget with its resolved spend figure attached.
type budgetView struct {
	Category        model.Category        `json:"category"`
	Amount          float64               `json:"amount"`
	Spent           float64               `json:"spent"`
	Remaining       float64               `json:"remaining"`
	SpendingHistory []model.SpendingEntry `json:"spendingHistory"`
}

type listBudgetsResponse struct {
	Budgets []budgetView `json:"budgets"`
}

// currentMonthExpenses fetches the owner's expenses for the calendar month
// containing now. Budgets without history or a legacy spent figure derive
// their spend from these.
func (s *FinanceService) currentMonthExpenses(ctx context.Context, ownerID string, now time.Time) ([]*model.Expense, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	var all []*model.Expense
	pageToken := ""
	for {
		page, next, err := s.store.ListExpenses(ctx, ownerID, &start, &end, 500, pageToken)
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

func (s *FinanceService) buildBudgetViews(ctx context.Context, ownerID string) ([]budgetView, error) {
	budgets, err := s.store.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expenses, err := s.currentMonthExpenses(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}

	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		spent, _ := budget.ResolveSpent(b, b.Category, expenses, now)
		history := b.SpendingHistory
		if history == nil {
			history = []model.SpendingEntry{}
		}
		views = append(views, budgetView{
			Category:        b.Category,
			Amount:          b.Amount,
			Spent:           spent,
			Remaining:       b.Amount - spent,
			SpendingHistory: history,
		})
	}
	return views, nil
}

func (s *FinanceService) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	views, err := s.buildBudgetViews(r.Context(), claims.UID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listBudgetsResponse{Budgets: views})
}

func (s *FinanceService) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	category, ok := model.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", r.PathValue("category")))
		return
	}

	b, err := s.store.GetBudget(r.Context(), claims.UID, category)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	now := s.now()
	expenses, err := s.currentMonthExpenses(r.Context(), claims.UID, now)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	spent, _ := budget.ResolveSpent(b, category, expenses, now)
	history := b.SpendingHistory
	if history == nil {
		history = []model.SpendingEntry{}
	}
	writeJSON(w, http.StatusOK, budgetView{
		Category:        b.Category,
		Amount:          b.Amount,
		Spent:           spent,
		Remaining:       b.Amount - spent,
		SpendingHistory: history,
	})
}

type setBudgetAmountRequest struct {
	Amount float64 `json:"amount"`
}

func (s *FinanceService) handleSetBudgetAmount(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	category, ok := model.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", r.PathValue("category")))
		return
	}

	var req setBudgetAmountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if err := s.reconciler.SetAmount(r.Context(), claims.UID, category, req.Amount); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b, err := s.store.GetBudget(r.Context(), claims.UID, category)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type saveBudgetsRequest struct {
	Budgets []struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	} `json:"budgets"`
}

type saveBudgetsResponse struct {
	SavedCount int                  `json:"savedCount"`
	ErrorCount int                  `json:"errorCount"`
	Rejections []importer.Rejection `json:"rejections,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// handleSaveBudgets upserts a whole budget sheet in one call. Rows are
// validated and written independently; a bad row or a failed write never
// rolls back the rest.
func (s *FinanceService) handleSaveBudgets(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req saveBudgetsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	candidates := make([]importer.BudgetCandidate, 0, len(req.Budgets))
	for _, b := range req.Budgets {
		candidates = append(candidates, importer.BudgetCandidate{
			Category: b.Category,
			Amount:   strconv.FormatFloat(b.Amount, 'f', -1, 64),
		})
	}

	normalizer := importer.Normalizer{}
	result := normalizer.NormalizeBudgets(candidates)

	accepted := make([]*model.Budget, 0, len(result.Accepted))
	for i := range result.Accepted {
		accepted = append(accepted, &result.Accepted[i])
	}

	saved, saveErr := s.reconciler.SaveAll(r.Context(), claims.UID, accepted)
	resp := saveBudgetsResponse{
		SavedCount: saved,
		ErrorCount: result.ErrorCount + (len(accepted) - saved),
		Rejections: result.Rejections,
	}
	if saveErr != nil {
		resp.Error = saveErr.Error()
	}

	status := http.StatusOK
	if saved == 0 && len(req.Budgets) > 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (s *FinanceService) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	category, ok := model.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", r.PathValue("category")))
		return
	}

	if err := s.store.DeleteBudget(r.Context(), claims.UID, category); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addSpendingEntryRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

func (s *FinanceService) handleAddSpendingEntry(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	category, ok := model.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", r.PathValue("category")))
		return
	}

	var req addSpendingEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	entry, err := s.reconciler.AddSpendingEntry(r.Context(), claims.UID, category, req.Amount, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *FinanceService) handleDeleteSpendingEntry(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	category, ok := model.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", r.PathValue("category")))
		return
	}

	if err := s.reconciler.DeleteSpendingEntry(r.Context(), claims.UID, category, r.PathValue("entryId")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *FinanceService) handleExportBudgetsCSV(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	views, err := s.buildBudgetViews(r.Context(), claims.UID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="budgets.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Category", "Budgeted Amount", "Amount Spent"})
	for _, v := range views {
		_ = cw.Write([]string{
			string(v.Category),
			strconv.FormatFloat(v.Amount, 'f', 2, 64),
			strconv.FormatFloat(v.Spent, 'f', 2, 64),
		})
	}
	cw.Flush()
}
