package budget

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithvis/Spend-Wise/internal/model"
	"github.com/codewithvis/Spend-Wise/internal/store"
)

func TestReconciler_SetAmountPreservesHistory(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	require.NoError(t, s.UpsertBudget(ctx, "user1", &model.Budget{
		Category:        model.CategoryGroceries,
		Amount:          400,
		SpendingHistory: []model.SpendingEntry{{ID: "e1", Amount: 25, Date: "2024-03-01T00:00:00Z"}},
	}))

	require.NoError(t, r.SetAmount(ctx, "user1", model.CategoryGroceries, 450))

	got, err := s.GetBudget(ctx, "user1", model.CategoryGroceries)
	require.NoError(t, err)
	assert.Equal(t, 450.0, got.Amount)
	assert.Len(t, got.SpendingHistory, 1)
}

func TestReconciler_SetAmountIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	require.NoError(t, r.SetAmount(ctx, "user1", model.CategoryRent, 1200))
	require.NoError(t, r.SetAmount(ctx, "user1", model.CategoryRent, 1200))

	got, err := s.GetBudget(ctx, "user1", model.CategoryRent)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, got.Amount)
}

func TestReconciler_SetAmountRejectsSalaryAndNegative(t *testing.T) {
	ctx := context.Background()
	r := NewReconciler(store.NewMemoryStore())

	assert.Error(t, r.SetAmount(ctx, "user1", model.CategorySalary, 100))
	assert.Error(t, r.SetAmount(ctx, "user1", model.CategoryDining, -1))
}

func TestReconciler_AddSpendingEntryAppends(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	require.NoError(t, s.UpsertBudget(ctx, "user1", &model.Budget{
		Category: model.CategoryDining,
		Amount:   200,
		SpendingHistory: []model.SpendingEntry{
			{ID: "e1", Amount: 10, Date: "2024-03-01T00:00:00Z"},
			{ID: "e2", Amount: 20, Date: "2024-03-02T00:00:00Z"},
		},
	}))

	entry, err := r.AddSpendingEntry(ctx, "user1", model.CategoryDining, 5, "2024-03-03T00:00:00Z")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	got, err := s.GetBudget(ctx, "user1", model.CategoryDining)
	require.NoError(t, err)
	require.Len(t, got.SpendingHistory, 3)
	// Existing entries are untouched and order is preserved.
	assert.Equal(t, "e1", got.SpendingHistory[0].ID)
	assert.Equal(t, "e2", got.SpendingHistory[1].ID)
	assert.Equal(t, entry.ID, got.SpendingHistory[2].ID)
	assert.Equal(t, 5.0, got.SpendingHistory[2].Amount)
}

func TestReconciler_AddSpendingEntryCreatesBudget(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	_, err := r.AddSpendingEntry(ctx, "user1", model.CategoryTravel, 75, "2024-03-03T00:00:00Z")
	require.NoError(t, err)

	got, err := s.GetBudget(ctx, "user1", model.CategoryTravel)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Amount)
	assert.Len(t, got.SpendingHistory, 1)
}

func TestReconciler_AddSpendingEntryRejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	for _, amount := range []float64{-50, 0, math.NaN(), math.Inf(1)} {
		_, err := r.AddSpendingEntry(ctx, "user1", model.CategoryDining, amount, "")
		assert.Error(t, err, "amount %v", amount)
	}

	// Rejected entries never create the budget document.
	_, err := s.GetBudget(ctx, "user1", model.CategoryDining)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReconciler_DeleteSpendingEntry(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	require.NoError(t, s.UpsertBudget(ctx, "user1", &model.Budget{
		Category: model.CategoryDining,
		SpendingHistory: []model.SpendingEntry{
			{ID: "e1", Amount: 10, Date: "2024-03-01T00:00:00Z"},
			{ID: "e2", Amount: 20, Date: "2024-03-02T00:00:00Z"},
			{ID: "e3", Amount: 30, Date: "2024-03-03T00:00:00Z"},
		},
	}))

	require.NoError(t, r.DeleteSpendingEntry(ctx, "user1", model.CategoryDining, "e2"))

	got, err := s.GetBudget(ctx, "user1", model.CategoryDining)
	require.NoError(t, err)
	require.Len(t, got.SpendingHistory, 2)
	assert.Equal(t, "e1", got.SpendingHistory[0].ID)
	assert.Equal(t, "e3", got.SpendingHistory[1].ID)

	// Unknown IDs are an error and leave the history alone.
	err = r.DeleteSpendingEntry(ctx, "user1", model.CategoryDining, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
	got, err = s.GetBudget(ctx, "user1", model.CategoryDining)
	require.NoError(t, err)
	assert.Len(t, got.SpendingHistory, 2)
}

func TestReconciler_SaveAllPreservesSpendingHistory(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	_, err := r.AddSpendingEntry(ctx, "user1", model.CategoryGroceries, 25, "2024-03-01T00:00:00Z")
	require.NoError(t, err)

	// A whole-sheet save carries only categories and amounts.
	saved, err := r.SaveAll(ctx, "user1", []*model.Budget{
		{Category: model.CategoryGroceries, Amount: 400},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	got, err := s.GetBudget(ctx, "user1", model.CategoryGroceries)
	require.NoError(t, err)
	assert.Equal(t, 400.0, got.Amount)
	require.Len(t, got.SpendingHistory, 1)
	assert.Equal(t, 25.0, got.SpendingHistory[0].Amount)
}

func TestReconciler_SaveAllPartialSuccess(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	r := NewReconciler(s)

	budgets := []*model.Budget{
		{Category: model.CategoryGroceries, Amount: 400},
		{Category: model.CategorySalary, Amount: 5000},
		{Category: model.CategoryTravel, Amount: 150},
	}
	saved, err := r.SaveAll(ctx, "user1", budgets)
	assert.Error(t, err)
	assert.Equal(t, 2, saved)

	_, gerr := s.GetBudget(ctx, "user1", model.CategoryGroceries)
	assert.NoError(t, gerr)
	_, terr := s.GetBudget(ctx, "user1", model.CategoryTravel)
	assert.NoError(t, terr)
	_, serr := s.GetBudget(ctx, "user1", model.CategorySalary)
	assert.ErrorIs(t, serr, store.ErrNotFound)
}
