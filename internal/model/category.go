// Package model defines the SpendWise domain types and the category registry.
package model

import "strings"

// Category is a fixed, closed classification for expenses, budgets and plans.
type Category string

const (
	CategoryGroceries      Category = "Groceries"
	CategoryDining         Category = "Dining"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryUtilities      Category = "Utilities"
	CategoryRent           Category = "Rent"
	CategorySalary         Category = "Salary"
	CategoryShopping       Category = "Shopping"
	CategoryTravel         Category = "Travel"
	CategoryOther          Category = "Other"
)

// Categories is the registry, in display order. It feeds validators, the
// extraction prompt schema and UI selectors alike.
var Categories = []Category{
	CategoryGroceries,
	CategoryDining,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryRent,
	CategorySalary,
	CategoryShopping,
	CategoryTravel,
	CategoryOther,
}

// IsValidCategory reports whether s is an exact member of the registry.
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ParseCategory returns the registry member matching s exactly.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// MatchCategory maps an untrusted category string onto the registry. It is
// case-insensitive and tolerates common synonyms; anything unrecognized
// becomes Other. Callers that must reject unknown values use ParseCategory.
func MatchCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "groceries", "grocery", "supermarket", "food":
		return CategoryGroceries
	case "dining", "restaurant", "restaurants", "cafe", "eating out", "takeout":
		return CategoryDining
	case "transportation", "transport", "fuel", "gas", "petrol", "parking", "transit":
		return CategoryTransportation
	case "entertainment", "movies", "streaming", "games":
		return CategoryEntertainment
	case "utilities", "utility", "electricity", "water", "internet", "phone":
		return CategoryUtilities
	case "rent", "housing", "mortgage":
		return CategoryRent
	case "salary", "income", "paycheck", "wages":
		return CategorySalary
	case "shopping", "retail", "clothing":
		return CategoryShopping
	case "travel", "vacation", "holiday", "flights", "hotel":
		return CategoryTravel
	default:
		if c, ok := ParseCategory(strings.TrimSpace(s)); ok {
			return c
		}
		return CategoryOther
	}
}

// IsBudgetable reports whether a category may carry a budget. Salary is the
// sole income category and is excluded from budgeting and spend aggregation.
func (c Category) IsBudgetable() bool {
	return c != CategorySalary
}

// BudgetableCategories returns the registry minus Salary, in display order.
func BudgetableCategories() []Category {
	out := make([]Category, 0, len(Categories)-1)
	for _, c := range Categories {
		if c.IsBudgetable() {
			out = append(out, c)
		}
	}
	return out
}

// BudgetableNames returns the budgetable categories as plain strings.
func BudgetableNames() []string {
	budgetable := BudgetableCategories()
	out := make([]string, len(budgetable))
	for i, c := range budgetable {
		out[i] = string(c)
	}
	return out
}

// CategoryNames returns the registry as plain strings, in display order.
func CategoryNames() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}
