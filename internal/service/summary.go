package service

import (
	"net/http"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/budget"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

type categorySummary struct {
	Category  model.Category `json:"category"`
	Budgeted  float64        `json:"budgeted"`
	Spent     float64        `json:"spent"`
	Remaining float64        `json:"remaining"`
}

type summaryResponse struct {
	Month             string            `json:"month"`
	TotalIncome       float64           `json:"totalIncome"`
	TotalSpent        float64           `json:"totalSpent"`
	TotalBudget       float64           `json:"totalBudget"`
	TotalRemaining    float64           `json:"totalRemaining"`
	TopCategory       model.Category    `json:"topCategory,omitempty"`
	TopCategoryAmount float64           `json:"topCategoryAmount"`
	Categories        []categorySummary `json:"categories"`
}

// handleSummary reports the current calendar month: income, per-category
// spend against budget, and the heaviest spending category. Income is
// whatever carries the Salary category; sign plays no part.
func (s *FinanceService) handleSummary(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	now := s.now()
	expenses, err := s.currentMonthExpenses(r.Context(), claims.UID, now)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	budgets, err := s.store.ListBudgets(r.Context(), claims.UID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	budgetByCategory := make(map[model.Category]*model.Budget, len(budgets))
	for _, b := range budgets {
		budgetByCategory[b.Category] = b
	}

	resp := summaryResponse{
		Month:      now.Format("2006-01"),
		Categories: []categorySummary{},
	}

	for _, e := range expenses {
		if e.Category == model.CategorySalary {
			resp.TotalIncome += e.Amount
		}
	}

	for _, category := range model.BudgetableCategories() {
		b := budgetByCategory[category]
		spent, _ := budget.ResolveSpent(b, category, expenses, now)

		var budgeted float64
		if b != nil {
			budgeted = b.Amount
		}
		if b == nil && spent == 0 {
			continue
		}

		resp.TotalSpent += spent
		resp.TotalBudget += budgeted
		resp.Categories = append(resp.Categories, categorySummary{
			Category:  category,
			Budgeted:  budgeted,
			Spent:     spent,
			Remaining: budgeted - spent,
		})

		if spent > resp.TopCategoryAmount {
			resp.TopCategory = category
			resp.TopCategoryAmount = spent
		}
	}
	resp.TotalRemaining = resp.TotalBudget - resp.TotalSpent

	writeJSON(w, http.StatusOK, resp)
}
