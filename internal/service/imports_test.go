package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithvis/Spend-Wise/internal/extraction"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

func TestImportExpensesCSV(t *testing.T) {
	h := newTestHarness(t)

	csvBody := "Date,Description,Amount,Category\n" +
		"2024-03-15,Coffee,4.50,Dining\n" +
		"2024-03-16,Groceries run,82.10,Groceries\n" +
		"bad-date,Broken,5.00,Dining\n" +
		"2024-03-17,Mystery,9.99,Gambling\n"

	var resp importResponse
	rec := h.do(t, http.MethodPost, "/v1/imports/expenses/csv", csvBody, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, resp.ImportedCount)
	assert.Equal(t, 2, resp.ErrorCount)
	assert.Equal(t, "2 imported, 2 skipped", resp.Message)
	require.Len(t, resp.Rejections, 2)
	// Rejections carry the input row index.
	assert.Equal(t, 2, resp.Rejections[0].Index)
	assert.Equal(t, 3, resp.Rejections[1].Index)

	var list listExpensesResponse
	h.do(t, http.MethodGet, "/v1/expenses", nil, &list)
	assert.Len(t, list.Expenses, 2)
}

func TestImportExpensesCSV_BadHeader(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/imports/expenses/csv", "Wrong,Header\n1,2\n", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportExpensesCSV_RecordsStatement(t *testing.T) {
	h := newTestHarness(t)

	csvBody := "Date,Description,Amount,Category\n2024-03-15,Coffee,4.50,Dining\n"
	rec := h.do(t, http.MethodPost, "/v1/imports/expenses/csv?filename=march.csv", csvBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listStatementsResponse
	h.do(t, http.MethodGet, "/v1/statements", nil, &resp)
	require.Len(t, resp.Statements, 1)
	assert.Equal(t, "march.csv", resp.Statements[0].Filename)
	assert.Equal(t, 1, resp.Statements[0].ImportedCount)
	assert.Equal(t, 0, resp.Statements[0].SkippedCount)
	assert.Equal(t, int64(len(csvBody)), resp.Statements[0].SizeBytes)
}

func TestImportBudgetsCSV(t *testing.T) {
	h := newTestHarness(t)

	csvBody := "Category,Amount\n" +
		"Groceries,400\n" +
		"Salary,5000\n" +
		"Travel,150\n"

	var resp importResponse
	rec := h.do(t, http.MethodPost, "/v1/imports/budgets/csv", csvBody, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, resp.ImportedCount)
	assert.Equal(t, 1, resp.ErrorCount)

	var list listBudgetsResponse
	h.do(t, http.MethodGet, "/v1/budgets", nil, &list)
	require.Len(t, list.Budgets, 2)
	assert.Equal(t, model.CategoryGroceries, list.Budgets[0].Category)
	assert.Equal(t, model.CategoryTravel, list.Budgets[1].Category)
}

func TestImportExpensesText_ExtractionNotConfigured(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/imports/expenses/text", importTextRequest{
		Text: "some statement text",
	}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestImportExpensesText_WithExtractor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]interface{}{
					{"text": `{"expenses": [
						{"date": "2024-03-15", "description": "Coffee", "amount": 4.5, "category": "Dining"},
						{"date": "2024-03-16", "description": "Crypto", "amount": 100, "category": "Cryptocurrency"}
					]}`},
				}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	h := newTestHarness(t)
	extractor := extraction.NewGeminiClient("test-key")
	extractor.SetBaseURL(server.URL)
	h.service.extractor = extractor

	var resp importResponse
	rec := h.do(t, http.MethodPost, "/v1/imports/expenses/text", importTextRequest{
		Text: "03/15 Coffee 4.50\n03/16 Crypto 100.00",
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, resp.ImportedCount)
	assert.Equal(t, 0, resp.ErrorCount)

	// Unknown AI categories land in Other instead of being rejected.
	var list listExpensesResponse
	h.do(t, http.MethodGet, "/v1/expenses", nil, &list)
	require.Len(t, list.Expenses, 2)
	categories := map[model.Category]bool{}
	for _, e := range list.Expenses {
		categories[e.Category] = true
	}
	assert.True(t, categories[model.CategoryOther])
	assert.True(t, categories[model.CategoryDining])
}

func TestImportExpensesPDF_RequiresFile(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/imports/expenses/pdf", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
