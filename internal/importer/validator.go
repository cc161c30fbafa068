package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

// candidateDateFormats are tried in order when validating a candidate date.
// AI extraction resolves relative terms ("yesterday") before records reach
// this package, so only concrete formats appear here.
var candidateDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"January 2 2006",
}

// parseCandidateDate parses a candidate date string and normalizes it to
// RFC 3339. Formats without a time component become midnight UTC.
func parseCandidateDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range candidateDateFormats {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return t.UTC().Format(time.RFC3339), true
	}
	return "", false
}

// parseCandidateAmount parses a candidate amount string, rejecting NaN and
// infinities. Currency symbols are the caller's problem: the original
// import rejects "$4.50" too.
func parseCandidateAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ValidateExpense validates one candidate expense record. On success the
// returned expense has its date normalized to RFC 3339; ID and OwnerID are
// left for the caller. On failure the rejection's Index is zero; batch
// callers fill it in.
//
// Zero and negative amounts are deliberately accepted: the source data model
// uses negative amounts for income in one revision, and the validator does
// not take a side (income is identified by the Salary category, not sign).
func ValidateExpense(c ExpenseCandidate, policy UnknownCategoryPolicy) (model.Expense, *Rejection) {
	if strings.TrimSpace(c.Date) == "" || strings.TrimSpace(c.Description) == "" ||
		strings.TrimSpace(c.Amount) == "" {
		return model.Expense{}, &Rejection{Reason: ReasonMissingField, Detail: "missing required fields"}
	}
	// Under the lenient policy a blank category remaps to Other like any
	// other unknown value; the strict policy treats it as a missing field.
	if strings.TrimSpace(c.Category) == "" && policy != RemapUnknownToOther {
		return model.Expense{}, &Rejection{Reason: ReasonMissingField, Detail: "missing required fields"}
	}

	amount, ok := parseCandidateAmount(c.Amount)
	if !ok {
		return model.Expense{}, &Rejection{Reason: ReasonInvalidAmount, Detail: fmt.Sprintf("amount %q is not a finite number", c.Amount)}
	}

	date, ok := parseCandidateDate(c.Date)
	if !ok {
		return model.Expense{}, &Rejection{Reason: ReasonInvalidDate, Detail: fmt.Sprintf("date %q is not a recognized date", c.Date)}
	}

	var category model.Category
	switch policy {
	case RemapUnknownToOther:
		category = model.MatchCategory(c.Category)
	default:
		parsed, ok := model.ParseCategory(strings.TrimSpace(c.Category))
		if !ok {
			return model.Expense{}, &Rejection{Reason: ReasonInvalidCategory, Detail: fmt.Sprintf("category %q is not in the registry", c.Category)}
		}
		category = parsed
	}

	return model.Expense{
		Description: strings.TrimSpace(c.Description),
		Amount:      amount,
		Category:    category,
		Date:        date,
	}, nil
}

// ValidateBudget validates one candidate budget record. Budget categories
// are always strict: an unknown category is rejected, and Salary is rejected
// as non-budgetable.
func ValidateBudget(c BudgetCandidate) (model.Budget, *Rejection) {
	if strings.TrimSpace(c.Category) == "" || strings.TrimSpace(c.Amount) == "" {
		return model.Budget{}, &Rejection{Reason: ReasonMissingField, Detail: "missing required fields"}
	}

	category, ok := model.ParseCategory(strings.TrimSpace(c.Category))
	if !ok {
		return model.Budget{}, &Rejection{Reason: ReasonInvalidCategory, Detail: fmt.Sprintf("category %q is not in the registry", c.Category)}
	}
	if !category.IsBudgetable() {
		return model.Budget{}, &Rejection{Reason: ReasonNonBudgetableCategory, Detail: fmt.Sprintf("category %q cannot carry a budget", category)}
	}

	amount, ok := parseCandidateAmount(c.Amount)
	if !ok {
		return model.Budget{}, &Rejection{Reason: ReasonInvalidAmount, Detail: fmt.Sprintf("amount %q is not a finite number", c.Amount)}
	}
	if amount < 0 {
		return model.Budget{}, &Rejection{Reason: ReasonInvalidAmount, Detail: fmt.Sprintf("amount %v is negative", amount)}
	}

	return model.Budget{
		Category: category,
		Amount:   amount,
	}, nil
}
