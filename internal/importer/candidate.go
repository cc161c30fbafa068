// Package importer normalizes untrusted candidate records from CSV rows,
// AI extraction output and form submissions into validated domain records.
package importer

// ExpenseCandidate is the canonical loosely-typed shape for one candidate
// expense record. Every entry point (CSV row, AI JSON, manual form) maps its
// native shape into this type before validation, so the loose-input /
// strict-output boundary lives in exactly one place. All fields are raw
// text; empty means absent.
type ExpenseCandidate struct {
	Date        string
	Description string
	Amount      string
	Category    string
}

// BudgetCandidate is the canonical loosely-typed shape for one candidate
// budget record.
type BudgetCandidate struct {
	Category string
	Amount   string
}

// RejectReason classifies why a candidate record was not accepted.
type RejectReason string

const (
	ReasonMissingField          RejectReason = "MissingField"
	ReasonInvalidAmount         RejectReason = "InvalidAmount"
	ReasonInvalidDate           RejectReason = "InvalidDate"
	ReasonInvalidCategory       RejectReason = "InvalidCategory"
	ReasonNonBudgetableCategory RejectReason = "NonBudgetableCategory"
)

// Rejection reports one skipped candidate. Rejections are values accumulated
// per batch, never raised, so an import continues past bad records.
type Rejection struct {
	Index  int          `json:"index"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail"`
}

// UnknownCategoryPolicy selects how an expense candidate with a category
// outside the registry is handled. The source application is inconsistent
// across entry points, so each call site chooses deliberately: CSV import
// rejects, AI extraction remaps to Other.
type UnknownCategoryPolicy int

const (
	RejectUnknownCategory UnknownCategoryPolicy = iota
	RemapUnknownToOther
)
