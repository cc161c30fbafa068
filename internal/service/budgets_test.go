package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

func TestSetBudgetAmountAndList(t *testing.T) {
	h := newTestHarness(t)

	var b model.Budget
	rec := h.do(t, http.MethodPut, "/v1/budgets/Groceries", setBudgetAmountRequest{Amount: 400}, &b)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 400.0, b.Amount)

	var resp listBudgetsResponse
	rec = h.do(t, http.MethodGet, "/v1/budgets", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Budgets, 1)
	assert.Equal(t, model.CategoryGroceries, resp.Budgets[0].Category)
	assert.Equal(t, 400.0, resp.Budgets[0].Remaining)
}

func TestGetBudget(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	require.NoError(t, h.store.UpsertBudget(ctx, "test-user", &model.Budget{
		Category: model.CategoryTravel,
		Amount:   300,
		SpendingHistory: []model.SpendingEntry{
			{ID: "e1", Amount: 120, Date: "2024-03-02T00:00:00Z"},
		},
	}))

	var v budgetView
	rec := h.do(t, http.MethodGet, "/v1/budgets/Travel", nil, &v)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CategoryTravel, v.Category)
	assert.Equal(t, 120.0, v.Spent)
	assert.Equal(t, 180.0, v.Remaining)

	rec = h.do(t, http.MethodGet, "/v1/budgets/Dining", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetBudgetAmount_RejectsSalary(t *testing.T) {
	h := newTestHarness(t)
	rec := h.do(t, http.MethodPut, "/v1/budgets/Salary", setBudgetAmountRequest{Amount: 100}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBudgets_SpendFromHistory(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	require.NoError(t, h.store.UpsertBudget(ctx, "test-user", &model.Budget{
		Category: model.CategoryDining,
		Amount:   200,
		SpendingHistory: []model.SpendingEntry{
			{ID: "e1", Amount: 30, Date: "2024-03-01T00:00:00Z"},
			{ID: "e2", Amount: 20, Date: "2024-03-05T00:00:00Z"},
		},
	}))

	var resp listBudgetsResponse
	rec := h.do(t, http.MethodGet, "/v1/budgets", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Budgets, 1)
	assert.Equal(t, 50.0, resp.Budgets[0].Spent)
	assert.Equal(t, 150.0, resp.Budgets[0].Remaining)
}

func TestListBudgets_SpendDerivedFromCurrentMonth(t *testing.T) {
	h := newTestHarness(t)

	h.do(t, http.MethodPut, "/v1/budgets/Dining", setBudgetAmountRequest{Amount: 200}, nil)

	// Two current-month expenses and one from last month.
	for _, req := range []expenseRequest{
		{Description: "Lunch", Amount: 20, Category: "Dining", Date: "2024-03-05"},
		{Description: "Dinner", Amount: 30, Category: "Dining", Date: "2024-03-18"},
		{Description: "Old", Amount: 99, Category: "Dining", Date: "2024-02-10"},
	} {
		rec := h.do(t, http.MethodPost, "/v1/expenses", req, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var resp listBudgetsResponse
	rec := h.do(t, http.MethodGet, "/v1/budgets", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Budgets, 1)
	assert.Equal(t, 50.0, resp.Budgets[0].Spent)
}

func TestSaveBudgets_PartialSuccess(t *testing.T) {
	h := newTestHarness(t)

	var resp saveBudgetsResponse
	rec := h.do(t, http.MethodPost, "/v1/budgets", map[string]interface{}{
		"budgets": []map[string]interface{}{
			{"category": "Groceries", "amount": 400},
			{"category": "Salary", "amount": 5000},
			{"category": "Nonsense", "amount": 10},
			{"category": "Travel", "amount": 150},
		},
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, resp.SavedCount)
	assert.Equal(t, 2, resp.ErrorCount)
	assert.Len(t, resp.Rejections, 2)

	var list listBudgetsResponse
	h.do(t, http.MethodGet, "/v1/budgets", nil, &list)
	assert.Len(t, list.Budgets, 2)
}

func TestSaveBudgets_PreservesSpendingHistory(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/budgets/Groceries/spending", addSpendingEntryRequest{Amount: 25}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var saveResp saveBudgetsResponse
	rec = h.do(t, http.MethodPost, "/v1/budgets", map[string]interface{}{
		"budgets": []map[string]interface{}{
			{"category": "Groceries", "amount": 400},
		},
	}, &saveResp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, saveResp.SavedCount)

	var v budgetView
	rec = h.do(t, http.MethodGet, "/v1/budgets/Groceries", nil, &v)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 400.0, v.Amount)
	require.Len(t, v.SpendingHistory, 1)
	assert.Equal(t, 25.0, v.SpendingHistory[0].Amount)
	assert.Equal(t, 25.0, v.Spent)
}

func TestAddSpendingEntry_RejectsNonPositiveAmount(t *testing.T) {
	h := newTestHarness(t)

	for _, amount := range []float64{-50, 0} {
		rec := h.do(t, http.MethodPost, "/v1/budgets/Dining/spending", addSpendingEntryRequest{Amount: amount}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %v", amount)
	}
}

func TestSpendingEntryLifecycle(t *testing.T) {
	h := newTestHarness(t)

	h.do(t, http.MethodPut, "/v1/budgets/Dining", setBudgetAmountRequest{Amount: 200}, nil)

	var entry model.SpendingEntry
	rec := h.do(t, http.MethodPost, "/v1/budgets/Dining/spending", addSpendingEntryRequest{
		Amount: 25, Date: "2024-03-10T00:00:00Z",
	}, &entry)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, entry.ID)

	var resp listBudgetsResponse
	h.do(t, http.MethodGet, "/v1/budgets", nil, &resp)
	require.Len(t, resp.Budgets, 1)
	assert.Equal(t, 25.0, resp.Budgets[0].Spent)
	require.Len(t, resp.Budgets[0].SpendingHistory, 1)

	rec = h.do(t, http.MethodDelete, "/v1/budgets/Dining/spending/"+entry.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodDelete, "/v1/budgets/Dining/spending/"+entry.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBudget(t *testing.T) {
	h := newTestHarness(t)

	h.do(t, http.MethodPut, "/v1/budgets/Travel", setBudgetAmountRequest{Amount: 100}, nil)
	rec := h.do(t, http.MethodDelete, "/v1/budgets/Travel", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var resp listBudgetsResponse
	h.do(t, http.MethodGet, "/v1/budgets", nil, &resp)
	assert.Empty(t, resp.Budgets)
}

func TestExportBudgetsCSV(t *testing.T) {
	h := newTestHarness(t)

	h.do(t, http.MethodPut, "/v1/budgets/Groceries", setBudgetAmountRequest{Amount: 400}, nil)
	h.do(t, http.MethodPost, "/v1/budgets/Groceries/spending", addSpendingEntryRequest{
		Amount: 55.5, Date: "2024-03-10T00:00:00Z",
	}, nil)

	rec := h.do(t, http.MethodGet, "/v1/budgets/export", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Category,Budgeted Amount,Amount Spent", lines[0])
	assert.Equal(t, "Groceries,400.00,55.50", lines[1])
}
