package importer

import "github.com/codewithvis/Spend-Wise/internal/model"

// Normalizer applies the record validators across an ordered batch of
// candidates. Records are evaluated independently; one rejection never
// aborts the batch, and accepted records preserve input order. Deduplication
// against previously persisted data is out of scope.
type Normalizer struct {
	// OnUnknownCategory selects the expense category policy for this entry
	// point. Budget candidates are always strict.
	OnUnknownCategory UnknownCategoryPolicy
}

// ExpenseResult is the outcome of normalizing one batch of expense
// candidates. len(Accepted)+ErrorCount always equals the input length.
type ExpenseResult struct {
	Accepted      []model.Expense
	ImportedCount int
	ErrorCount    int
	Rejections    []Rejection
}

// BudgetResult is the outcome of normalizing one batch of budget candidates.
type BudgetResult struct {
	Accepted      []model.Budget
	ImportedCount int
	ErrorCount    int
	Rejections    []Rejection
}

// NormalizeExpenses validates candidates in input order.
func (n *Normalizer) NormalizeExpenses(candidates []ExpenseCandidate) ExpenseResult {
	result := ExpenseResult{Accepted: make([]model.Expense, 0, len(candidates))}
	for i, c := range candidates {
		expense, rej := ValidateExpense(c, n.OnUnknownCategory)
		if rej != nil {
			rej.Index = i
			result.Rejections = append(result.Rejections, *rej)
			result.ErrorCount++
			continue
		}
		result.Accepted = append(result.Accepted, expense)
	}
	result.ImportedCount = len(result.Accepted)
	return result
}

// NormalizeBudgets validates candidates in input order.
func (n *Normalizer) NormalizeBudgets(candidates []BudgetCandidate) BudgetResult {
	result := BudgetResult{Accepted: make([]model.Budget, 0, len(candidates))}
	for i, c := range candidates {
		budget, rej := ValidateBudget(c)
		if rej != nil {
			rej.Index = i
			result.Rejections = append(result.Rejections, *rej)
			result.ErrorCount++
			continue
		}
		result.Accepted = append(result.Accepted, budget)
	}
	result.ImportedCount = len(result.Accepted)
	return result
}
