// Package store defines the persistence interface for all SpendWise data
// and its Firestore and in-memory implementations. Every operation is scoped
// to a single owner; no entity is shared across users.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations used by the service.
type Store interface {
	// Expense operations
	CreateExpense(ctx context.Context, ownerID string, expense *model.Expense) error
	GetExpense(ctx context.Context, ownerID, expenseID string) (*model.Expense, error)
	UpdateExpense(ctx context.Context, ownerID string, expense *model.Expense) error
	DeleteExpense(ctx context.Context, ownerID, expenseID string) error
	ListExpenses(ctx context.Context, ownerID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Expense, string, error)

	// Budget operations, keyed by (ownerID, category). SetBudgetAmount and
	// SetSpendingHistory are merge writes touching only the named field plus
	// identity; they never clobber the rest of the document.
	GetBudget(ctx context.Context, ownerID string, category model.Category) (*model.Budget, error)
	ListBudgets(ctx context.Context, ownerID string) ([]*model.Budget, error)
	UpsertBudget(ctx context.Context, ownerID string, budget *model.Budget) error
	SetBudgetAmount(ctx context.Context, ownerID string, category model.Category, amount float64) error
	SetSpendingHistory(ctx context.Context, ownerID string, category model.Category, entries []model.SpendingEntry) error
	DeleteBudget(ctx context.Context, ownerID string, category model.Category) error

	// Future plan operations
	CreatePlan(ctx context.Context, ownerID string, plan *model.FuturePlan) error
	GetPlan(ctx context.Context, ownerID, planID string) (*model.FuturePlan, error)
	UpdatePlan(ctx context.Context, ownerID string, plan *model.FuturePlan) error
	DeletePlan(ctx context.Context, ownerID, planID string) error
	ListPlans(ctx context.Context, ownerID string) ([]*model.FuturePlan, error)

	// User operations
	UpsertUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, userID string) (*model.User, error)

	// Statement records (archived import source documents)
	CreateStatement(ctx context.Context, ownerID string, statement *model.Statement) error
	ListStatements(ctx context.Context, ownerID string) ([]*model.Statement, error)
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
