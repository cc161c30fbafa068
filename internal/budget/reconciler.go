package budget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/codewithvis/Spend-Wise/internal/model"
	"github.com/codewithvis/Spend-Wise/internal/store"
)

// Reconciler applies budget mutations against the store using merge
// semantics: each operation touches only the fields it owns, so a concurrent
// amount change and history change never clobber each other.
type Reconciler struct {
	store store.Store
}

func NewReconciler(s store.Store) *Reconciler {
	return &Reconciler{store: s}
}

// SetAmount writes the budget ceiling for a category, creating the budget
// document if it does not exist. The spending history is left untouched.
func (r *Reconciler) SetAmount(ctx context.Context, ownerID string, category model.Category, amount float64) error {
	if !category.IsBudgetable() {
		return fmt.Errorf("category %q cannot carry a budget", category)
	}
	if amount < 0 {
		return fmt.Errorf("budget amount must be non-negative, got %v", amount)
	}
	return r.store.SetBudgetAmount(ctx, ownerID, category, amount)
}

// AddSpendingEntry appends one spend record to a category's history. The
// remote history is re-read before appending so a stale caller cannot drop
// entries written since its last read. Returns the stored entry with its
// assigned ID.
func (r *Reconciler) AddSpendingEntry(ctx context.Context, ownerID string, category model.Category, amount float64, date string) (*model.SpendingEntry, error) {
	if !category.IsBudgetable() {
		return nil, fmt.Errorf("category %q cannot carry a budget", category)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("spending amount must be a positive number, got %v", amount)
	}
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}

	var history []model.SpendingEntry
	b, err := r.store.GetBudget(ctx, ownerID, category)
	switch {
	case err == nil:
		history = b.SpendingHistory
	case errors.Is(err, store.ErrNotFound):
		// First entry creates the budget document with a zero amount.
	default:
		return nil, err
	}

	entry := model.SpendingEntry{
		ID:     uuid.New().String(),
		Amount: amount,
		Date:   date,
	}
	history = append(history, entry)

	if err := r.store.SetSpendingHistory(ctx, ownerID, category, history); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteSpendingEntry removes the entry with the given ID from a category's
// history, preserving the order of the remaining entries. Deleting an ID
// that is not present is an error; deleting one that is removes exactly one
// entry.
func (r *Reconciler) DeleteSpendingEntry(ctx context.Context, ownerID string, category model.Category, entryID string) error {
	b, err := r.store.GetBudget(ctx, ownerID, category)
	if err != nil {
		return err
	}

	history := make([]model.SpendingEntry, 0, len(b.SpendingHistory))
	found := false
	for _, e := range b.SpendingHistory {
		if !found && e.ID == entryID {
			found = true
			continue
		}
		history = append(history, e)
	}
	if !found {
		return fmt.Errorf("spending entry %q: %w", entryID, store.ErrNotFound)
	}
	return r.store.SetSpendingHistory(ctx, ownerID, category, history)
}

// SaveAll writes a batch of budget ceilings one category at a time. Each
// write goes through the amount merge path, so spending histories already on
// record survive a whole-sheet save. There is no rollback: budgets written
// before a failure stay written, and the returned error aggregates every
// category that failed.
func (r *Reconciler) SaveAll(ctx context.Context, ownerID string, budgets []*model.Budget) (int, error) {
	var (
		saved int
		errs  []error
	)
	for _, b := range budgets {
		if err := r.SetAmount(ctx, ownerID, b.Category, b.Amount); err != nil {
			log.Printf("[BUDGET] save %s/%s failed: %v", ownerID, b.Category, err)
			errs = append(errs, fmt.Errorf("category %q: %w", b.Category, err))
			continue
		}
		saved++
	}
	if len(errs) > 0 {
		return saved, errors.Join(errs...)
	}
	return saved, nil
}
