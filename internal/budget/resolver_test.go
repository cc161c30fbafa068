package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestResolveSpent_HistoryWinsOverLegacyScalar(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	b := &model.Budget{
		Category: model.CategoryGroceries,
		Amount:   400,
		SpendingHistory: []model.SpendingEntry{
			{ID: "e1", Amount: 10, Date: "2024-03-01T00:00:00Z"},
			{ID: "e2", Amount: 5, Date: "2024-03-02T00:00:00Z"},
		},
		Spent: ptr(999),
	}
	// Same-month expenses exist too; they must be ignored.
	expenses := []*model.Expense{
		{Category: model.CategoryGroceries, Amount: 1, Date: "2024-03-10T00:00:00Z"},
	}

	spent, source := ResolveSpent(b, model.CategoryGroceries, expenses, now)
	assert.Equal(t, 15.0, spent)
	assert.Equal(t, HistorySource{Total: 15, Entries: 2}, source)
}

func TestResolveSpent_LegacyScalarWhenHistoryEmpty(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	b := &model.Budget{
		Category: model.CategoryDining,
		Amount:   200,
		Spent:    ptr(50),
	}

	spent, source := ResolveSpent(b, model.CategoryDining, nil, now)
	assert.Equal(t, 50.0, spent)
	assert.Equal(t, LegacyScalarSource{Value: 50}, source)
}

func TestResolveSpent_DerivedFromCurrentMonthExpenses(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	expenses := []*model.Expense{
		{Category: model.CategoryDining, Amount: 20, Date: "2024-03-05T00:00:00Z"},
		{Category: model.CategoryDining, Amount: 30, Date: "2024-03-18T00:00:00Z"},
		// Wrong month
		{Category: model.CategoryDining, Amount: 100, Date: "2024-02-28T00:00:00Z"},
		// Wrong category
		{Category: model.CategoryTravel, Amount: 100, Date: "2024-03-10T00:00:00Z"},
		// Refund: negative amounts are excluded from derived spend
		{Category: model.CategoryDining, Amount: -5, Date: "2024-03-19T00:00:00Z"},
	}

	spent, source := ResolveSpent(nil, model.CategoryDining, expenses, now)
	assert.Equal(t, 50.0, spent)
	assert.Equal(t, DerivedSource{Total: 50}, source)
}

func TestResolveSpent_EmptyEverything(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	spent, source := ResolveSpent(&model.Budget{Category: model.CategoryRent}, model.CategoryRent, nil, now)
	assert.Equal(t, 0.0, spent)
	assert.Equal(t, DerivedSource{}, source)
}

func TestResolveSpent_SumsStoredHistoryAsIs(t *testing.T) {
	// Pre-validation documents can carry negative entries; the resolver
	// reports whatever is on record.
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	b := &model.Budget{
		Category: model.CategoryShopping,
		SpendingHistory: []model.SpendingEntry{
			{ID: "e1", Amount: 80, Date: "2024-03-01T00:00:00Z"},
			{ID: "e2", Amount: -30, Date: "2024-03-03T00:00:00Z"},
		},
	}
	spent, _ := ResolveSpent(b, model.CategoryShopping, nil, now)
	assert.Equal(t, 50.0, spent)
}
