package model

import "time"

// Expense is a single recorded outflow (or, for Salary, inflow).
// Dates are RFC 3339 strings end to end; Firestore stores them as strings,
// matching the original document layout.
type Expense struct {
	ID          string   `json:"id" firestore:"id"`
	OwnerID     string   `json:"ownerId" firestore:"ownerId"`
	Description string   `json:"description" firestore:"description"`
	Amount      float64  `json:"amount" firestore:"amount"`
	Category    Category `json:"category" firestore:"category"`
	Date        string   `json:"date" firestore:"date"`
}

// DateTime parses the expense date. The zero time is returned for a date
// that does not parse; validated expenses always parse.
func (e *Expense) DateTime() time.Time {
	t, err := time.Parse(time.RFC3339, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SpendingEntry is one atomic, append-only log record of spend against a
// budget category. Entries are owned exclusively by their parent budget and
// addressed by ID so they can be individually removed.
type SpendingEntry struct {
	ID     string  `json:"id" firestore:"id"`
	Amount float64 `json:"amount" firestore:"amount"`
	Date   string  `json:"date" firestore:"date"`
}

// Budget is the per-category spending ceiling plus its spend log. Identity
// is (OwnerID, Category); at most one budget exists per category per owner.
//
// Spent is a legacy scalar from an earlier document revision that predates
// SpendingHistory. It is read, never written; SpendingHistory is the
// preferred source of truth once present and non-empty.
type Budget struct {
	OwnerID         string          `json:"ownerId" firestore:"ownerId"`
	Category        Category        `json:"category" firestore:"category"`
	Amount          float64         `json:"amount" firestore:"amount"`
	SpendingHistory []SpendingEntry `json:"spendingHistory" firestore:"spendingHistory"`
	Spent           *float64        `json:"spent,omitempty" firestore:"spent,omitempty"`
}

// FuturePlan is a planned, not-yet-incurred expenditure. Structurally
// parallel to Expense but dated in the future and never aggregated into
// spend totals.
type FuturePlan struct {
	ID          string   `json:"id" firestore:"id"`
	OwnerID     string   `json:"ownerId" firestore:"ownerId"`
	Description string   `json:"description" firestore:"description"`
	Amount      float64  `json:"amount" firestore:"amount"`
	Category    Category `json:"category" firestore:"category"`
	TargetDate  string   `json:"targetDate" firestore:"targetDate"`
}

// User is the per-account profile document.
type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	CreatedAt   string `json:"createdAt" firestore:"createdAt"`
}

// Statement records one archived import source document (an uploaded PDF or
// pasted text) together with the outcome of the import that consumed it.
type Statement struct {
	ID            string `json:"id" firestore:"id"`
	OwnerID       string `json:"ownerId" firestore:"ownerId"`
	Filename      string `json:"filename" firestore:"filename"`
	StoragePath   string `json:"storagePath,omitempty" firestore:"storagePath,omitempty"`
	SizeBytes     int64  `json:"sizeBytes" firestore:"sizeBytes"`
	ImportedCount int    `json:"importedCount" firestore:"importedCount"`
	SkippedCount  int    `json:"skippedCount" firestore:"skippedCount"`
	UploadedAt    string `json:"uploadedAt" firestore:"uploadedAt"`
}
