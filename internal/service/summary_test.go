package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

func TestSummary(t *testing.T) {
	h := newTestHarness(t)

	h.do(t, http.MethodPut, "/v1/budgets/Groceries", setBudgetAmountRequest{Amount: 400}, nil)
	h.do(t, http.MethodPut, "/v1/budgets/Dining", setBudgetAmountRequest{Amount: 200}, nil)

	for _, req := range []expenseRequest{
		{Description: "Groceries run", Amount: 120, Category: "Groceries", Date: "2024-03-05"},
		{Description: "Lunch", Amount: 30, Category: "Dining", Date: "2024-03-10"},
		{Description: "Dinner", Amount: 45, Category: "Dining", Date: "2024-03-12"},
		{Description: "March pay", Amount: 5000, Category: "Salary", Date: "2024-03-01"},
		{Description: "Old groceries", Amount: 999, Category: "Groceries", Date: "2024-02-20"},
	} {
		rec := h.do(t, http.MethodPost, "/v1/expenses", req, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var resp summaryResponse
	rec := h.do(t, http.MethodGet, "/v1/summary", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "2024-03", resp.Month)
	// Salary is income, never spend.
	assert.Equal(t, 5000.0, resp.TotalIncome)
	assert.Equal(t, 195.0, resp.TotalSpent)
	assert.Equal(t, 600.0, resp.TotalBudget)
	assert.Equal(t, 405.0, resp.TotalRemaining)
	assert.Equal(t, model.CategoryGroceries, resp.TopCategory)
	assert.Equal(t, 120.0, resp.TopCategoryAmount)
	assert.Len(t, resp.Categories, 2)
}

func TestSummary_UnbudgetedSpendStillCounts(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/expenses", expenseRequest{
		Description: "Flight", Amount: 300, Category: "Travel", Date: "2024-03-08",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp summaryResponse
	h.do(t, http.MethodGet, "/v1/summary", nil, &resp)
	assert.Equal(t, 300.0, resp.TotalSpent)
	assert.Equal(t, model.CategoryTravel, resp.TopCategory)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, -300.0, resp.Categories[0].Remaining)
}

func TestSummary_Empty(t *testing.T) {
	h := newTestHarness(t)

	var resp summaryResponse
	rec := h.do(t, http.MethodGet, "/v1/summary", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, resp.TotalSpent)
	assert.Empty(t, resp.TopCategory)
	assert.Empty(t, resp.Categories)
}
