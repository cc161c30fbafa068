// Package service implements the SpendWise HTTP/JSON API.
package service

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	gcsstorage "cloud.google.com/go/storage"

	"github.com/codewithvis/Spend-Wise/internal/budget"
	"github.com/codewithvis/Spend-Wise/internal/extraction"
	"github.com/codewithvis/Spend-Wise/internal/store"
)

// FinanceService serves all expense, budget, plan and import endpoints.
type FinanceService struct {
	store         store.Store
	extractor     *extraction.GeminiClient
	reconciler    *budget.Reconciler
	storageBucket *gcsstorage.BucketHandle

	// now is swappable for tests that pin the current month.
	now func() time.Time
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(s store.Store, extractor *extraction.GeminiClient) *FinanceService {
	return &FinanceService{
		store:      s,
		extractor:  extractor,
		reconciler: budget.NewReconciler(s),
		now:        time.Now,
	}
}

// SetStorageClient sets the GCS bucket used to archive imported statements.
func (s *FinanceService) SetStorageClient(bucket *gcsstorage.BucketHandle) {
	s.storageBucket = bucket
}

// RegisterRoutes attaches every API endpoint to mux.
func (s *FinanceService) RegisterRoutes(mux *http.ServeMux) {
	// Expenses
	mux.HandleFunc("POST /v1/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /v1/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /v1/expenses/export", s.handleExportExpensesCSV)
	mux.HandleFunc("GET /v1/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /v1/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /v1/expenses/{id}", s.handleDeleteExpense)

	// Budgets
	mux.HandleFunc("GET /v1/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /v1/budgets", s.handleSaveBudgets)
	mux.HandleFunc("GET /v1/budgets/export", s.handleExportBudgetsCSV)
	mux.HandleFunc("GET /v1/budgets/{category}", s.handleGetBudget)
	mux.HandleFunc("PUT /v1/budgets/{category}", s.handleSetBudgetAmount)
	mux.HandleFunc("DELETE /v1/budgets/{category}", s.handleDeleteBudget)
	mux.HandleFunc("POST /v1/budgets/{category}/spending", s.handleAddSpendingEntry)
	mux.HandleFunc("DELETE /v1/budgets/{category}/spending/{entryId}", s.handleDeleteSpendingEntry)

	// Future plans
	mux.HandleFunc("POST /v1/plans", s.handleCreatePlan)
	mux.HandleFunc("GET /v1/plans", s.handleListPlans)
	mux.HandleFunc("GET /v1/plans/{id}", s.handleGetPlan)
	mux.HandleFunc("PUT /v1/plans/{id}", s.handleUpdatePlan)
	mux.HandleFunc("DELETE /v1/plans/{id}", s.handleDeletePlan)

	// Summary
	mux.HandleFunc("GET /v1/summary", s.handleSummary)

	// Imports
	mux.HandleFunc("POST /v1/imports/expenses/csv", s.handleImportExpensesCSV)
	mux.HandleFunc("POST /v1/imports/budgets/csv", s.handleImportBudgetsCSV)
	mux.HandleFunc("POST /v1/imports/expenses/text", s.handleImportExpensesText)
	mux.HandleFunc("POST /v1/imports/expenses/pdf", s.handleImportExpensesPDF)
	mux.HandleFunc("GET /v1/statements", s.handleListStatements)

	// Categorization
	mux.HandleFunc("POST /v1/categorize", s.handleCategorize)

	// Users
	mux.HandleFunc("POST /v1/users/sync", s.handleSyncUser)
	mux.HandleFunc("GET /v1/categories", s.handleListCategories)
}

// apiError is the JSON error envelope for every non-2xx response.
type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("[HTTP] encode response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, apiError{Error: err.Error()})
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	log.Printf("[HTTP] store error: %v", err)
	writeError(w, http.StatusInternalServerError, err)
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
