package budget

import (
	"math"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

// SpendSource identifies where a budget's resolved spend figure came from.
// Exactly one source applies to any budget; later sources are consulted only
// when every earlier one is absent.
type SpendSource interface {
	isSpendSource()
}

// HistorySource means the spend was summed from the budget's spending
// history. The history wins whenever it is non-empty, regardless of the
// legacy scalar.
type HistorySource struct {
	Total   float64
	Entries int
}

// LegacyScalarSource means the spend came from the pre-history scalar field
// on the budget document.
type LegacyScalarSource struct {
	Value float64
}

// DerivedSource means neither the history nor the legacy scalar was present,
// so the spend is derived from the owner's expense records for the current
// calendar month.
type DerivedSource struct {
	Total float64
}

func (HistorySource) isSpendSource()      {}
func (LegacyScalarSource) isSpendSource() {}
func (DerivedSource) isSpendSource()      {}

// historyTotal sums a budget's spending history. New entries are validated
// as positive on write; anything already on record is summed as stored.
func historyTotal(b *model.Budget) float64 {
	var total float64
	for _, e := range b.SpendingHistory {
		total += e.Amount
	}
	return total
}

// legacySpent returns the legacy scalar if it is present and finite.
func legacySpent(b *model.Budget) (float64, bool) {
	if b == nil || b.Spent == nil {
		return 0, false
	}
	v := *b.Spent
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// derivedTotal sums the owner's positive same-category expenses dated in the
// current calendar month (in now's location). Negative amounts are refunds
// and are excluded from derived spend.
func derivedTotal(category model.Category, expenses []*model.Expense, now time.Time) float64 {
	var total float64
	for _, e := range expenses {
		if e.Category != category || e.Amount <= 0 {
			continue
		}
		d := e.DateTime()
		if d.IsZero() {
			continue
		}
		d = d.In(now.Location())
		if d.Year() == now.Year() && d.Month() == now.Month() {
			total += e.Amount
		}
	}
	return total
}

// ResolveSpent computes the spend figure for a budget. Resolution is strict:
// a non-empty spending history always wins, otherwise a present legacy
// scalar, otherwise the current-month expense sum. A nil budget resolves
// straight to the derived source for the given category.
func ResolveSpent(b *model.Budget, category model.Category, expenses []*model.Expense, now time.Time) (float64, SpendSource) {
	if b != nil && len(b.SpendingHistory) > 0 {
		total := historyTotal(b)
		return total, HistorySource{Total: total, Entries: len(b.SpendingHistory)}
	}
	if v, ok := legacySpent(b); ok {
		return v, LegacyScalarSource{Value: v}
	}
	total := derivedTotal(category, expenses, now)
	return total, DerivedSource{Total: total}
}
