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

func TestCategorize_KeywordFallback(t *testing.T) {
	h := newTestHarness(t)

	var resp categorizeResponse
	rec := h.do(t, http.MethodPost, "/v1/categorize", categorizeRequest{
		Description: "STARBUCKS #4821",
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CategoryDining, resp.Category)
	assert.Equal(t, "keyword", resp.Method)
}

func TestCategorize_UsesGeminiWhenConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]interface{}{
					{"text": `{"category": "Travel", "confidence": 0.88}`},
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

	var resp categorizeResponse
	rec := h.do(t, http.MethodPost, "/v1/categorize", categorizeRequest{
		Description: "QF409 SYD-MEL",
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CategoryTravel, resp.Category)
	assert.Equal(t, 0.88, resp.Confidence)
	assert.Equal(t, "gemini", resp.Method)
}

func TestCategorize_FallsBackWhenGeminiFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer server.Close()

	h := newTestHarness(t)
	extractor := extraction.NewGeminiClient("test-key")
	extractor.SetBaseURL(server.URL)
	h.service.extractor = extractor

	var resp categorizeResponse
	rec := h.do(t, http.MethodPost, "/v1/categorize", categorizeRequest{
		Description: "NETFLIX.COM",
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CategoryEntertainment, resp.Category)
	assert.Equal(t, "keyword", resp.Method)
}

func TestCategorize_RequiresDescription(t *testing.T) {
	h := newTestHarness(t)
	rec := h.do(t, http.MethodPost, "/v1/categorize", categorizeRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories(t *testing.T) {
	h := newTestHarness(t)

	var resp listCategoriesResponse
	rec := h.do(t, http.MethodGet, "/v1/categories", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Categories, 10)
	assert.Len(t, resp.BudgetableCategories, 9)
	assert.NotContains(t, resp.BudgetableCategories, model.CategorySalary)
}
