package service

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/extraction"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

type categorizeRequest struct {
	Description string `json:"description"`
}

type categorizeResponse struct {
	Category   model.Category `json:"category"`
	Confidence float64        `json:"confidence"`
	Method     string         `json:"method"`
}

// handleCategorize suggests a category for an expense description. Gemini is
// preferred; the keyword matcher covers the unconfigured and Gemini-down
// cases so the endpoint always answers.
func (s *FinanceService) handleCategorize(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAuth(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req categorizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("description is required"))
		return
	}

	if s.extractor != nil && s.extractor.Configured() {
		category, confidence, err := s.extractor.SuggestCategory(r.Context(), req.Description)
		if err == nil {
			writeJSON(w, http.StatusOK, categorizeResponse{
				Category:   category,
				Confidence: confidence,
				Method:     "gemini",
			})
			return
		}
		log.Printf("[CATEGORIZE] gemini suggestion failed, falling back to keywords: %v", err)
	}

	suggestion := extraction.SuggestCategoryOffline(req.Description)
	writeJSON(w, http.StatusOK, categorizeResponse{
		Category:   suggestion.Category,
		Confidence: suggestion.Confidence,
		Method:     "keyword",
	})
}

type listCategoriesResponse struct {
	Categories           []model.Category `json:"categories"`
	BudgetableCategories []model.Category `json:"budgetableCategories"`
}

// handleListCategories exposes the registry so clients never hardcode it.
func (s *FinanceService) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listCategoriesResponse{
		Categories:           model.Categories,
		BudgetableCategories: model.BudgetableCategories(),
	})
}
