package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

// MemoryStore implements Store with in-memory storage. It backs local
// development and doubles as the test fake for the service and reconciler.
type MemoryStore struct {
	mu sync.RWMutex

	// Outer key is the owner ID; inner key is the document ID (or the
	// category, for budgets).
	expenses   map[string]map[string]*model.Expense
	budgets    map[string]map[model.Category]*model.Budget
	plans      map[string]map[string]*model.FuturePlan
	users      map[string]*model.User
	statements map[string]map[string]*model.Statement
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expenses:   make(map[string]map[string]*model.Expense),
		budgets:    make(map[string]map[model.Category]*model.Budget),
		plans:      make(map[string]map[string]*model.FuturePlan),
		users:      make(map[string]*model.User),
		statements: make(map[string]map[string]*model.Statement),
	}
}

// paginateIDs applies cursor-based pagination to a slice of IDs.
// Returns the paginated IDs and the next page token (empty if no more pages).
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string) {
	if pageSize <= 0 {
		pageSize = 100
	}

	sort.Strings(ids)

	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			for i, id := range ids {
				if id > cursorID {
					startIdx = i
					break
				}
				if i == len(ids)-1 {
					return nil, ""
				}
			}
		}
	}

	ids = ids[startIdx:]

	var nextToken string
	if int32(len(ids)) > pageSize {
		nextToken = EncodePageToken(ids[pageSize-1])
		ids = ids[:pageSize]
	}

	return ids, nextToken
}

func cloneExpense(e *model.Expense) *model.Expense {
	c := *e
	return &c
}

func cloneBudget(b *model.Budget) *model.Budget {
	c := *b
	if b.SpendingHistory != nil {
		c.SpendingHistory = make([]model.SpendingEntry, len(b.SpendingHistory))
		copy(c.SpendingHistory, b.SpendingHistory)
	}
	if b.Spent != nil {
		v := *b.Spent
		c.Spent = &v
	}
	return &c
}

func clonePlan(p *model.FuturePlan) *model.FuturePlan {
	c := *p
	return &c
}

// Expense operations

func (m *MemoryStore) CreateExpense(ctx context.Context, ownerID string, expense *model.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	expense.OwnerID = ownerID

	if m.expenses[ownerID] == nil {
		m.expenses[ownerID] = make(map[string]*model.Expense)
	}
	m.expenses[ownerID][expense.ID] = cloneExpense(expense)
	return nil
}

func (m *MemoryStore) GetExpense(ctx context.Context, ownerID, expenseID string) (*model.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expense, ok := m.expenses[ownerID][expenseID]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
	}
	return cloneExpense(expense), nil
}

func (m *MemoryStore) UpdateExpense(ctx context.Context, ownerID string, expense *model.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[ownerID][expense.ID]; !ok {
		return fmt.Errorf("expense %s: %w", expense.ID, ErrNotFound)
	}
	expense.OwnerID = ownerID
	m.expenses[ownerID][expense.ID] = cloneExpense(expense)
	return nil
}

func (m *MemoryStore) DeleteExpense(ctx context.Context, ownerID, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.expenses[ownerID], expenseID)
	return nil
}

func (m *MemoryStore) ListExpenses(ctx context.Context, ownerID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Expense, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matchingIDs []string
	for id, expense := range m.expenses[ownerID] {
		if startDate != nil || endDate != nil {
			t := expense.DateTime()
			if startDate != nil && t.Before(*startDate) {
				continue
			}
			if endDate != nil && t.After(*endDate) {
				continue
			}
		}
		matchingIDs = append(matchingIDs, id)
	}

	paginatedIDs, nextToken := paginateIDs(matchingIDs, pageSize, pageToken)
	result := make([]*model.Expense, 0, len(paginatedIDs))
	for _, id := range paginatedIDs {
		result = append(result, cloneExpense(m.expenses[ownerID][id]))
	}
	return result, nextToken, nil
}

// Budget operations

func (m *MemoryStore) GetBudget(ctx context.Context, ownerID string, category model.Category) (*model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	budget, ok := m.budgets[ownerID][category]
	if !ok {
		return nil, fmt.Errorf("budget %s: %w", category, ErrNotFound)
	}
	return cloneBudget(budget), nil
}

func (m *MemoryStore) ListBudgets(ctx context.Context, ownerID string) ([]*model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Budget, 0, len(m.budgets[ownerID]))
	// Registry order keeps listings stable without a sort column.
	for _, category := range model.Categories {
		if budget, ok := m.budgets[ownerID][category]; ok {
			result = append(result, cloneBudget(budget))
		}
	}
	return result, nil
}

func (m *MemoryStore) UpsertBudget(ctx context.Context, ownerID string, budget *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	budget.OwnerID = ownerID
	if m.budgets[ownerID] == nil {
		m.budgets[ownerID] = make(map[model.Category]*model.Budget)
	}
	m.budgets[ownerID][budget.Category] = cloneBudget(budget)
	return nil
}

func (m *MemoryStore) SetBudgetAmount(ctx context.Context, ownerID string, category model.Category, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.budgets[ownerID] == nil {
		m.budgets[ownerID] = make(map[model.Category]*model.Budget)
	}
	budget, ok := m.budgets[ownerID][category]
	if !ok {
		budget = &model.Budget{OwnerID: ownerID, Category: category}
		m.budgets[ownerID][category] = budget
	}
	budget.Amount = amount
	return nil
}

func (m *MemoryStore) SetSpendingHistory(ctx context.Context, ownerID string, category model.Category, entries []model.SpendingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.budgets[ownerID] == nil {
		m.budgets[ownerID] = make(map[model.Category]*model.Budget)
	}
	budget, ok := m.budgets[ownerID][category]
	if !ok {
		budget = &model.Budget{OwnerID: ownerID, Category: category}
		m.budgets[ownerID][category] = budget
	}
	history := make([]model.SpendingEntry, len(entries))
	copy(history, entries)
	budget.SpendingHistory = history
	return nil
}

func (m *MemoryStore) DeleteBudget(ctx context.Context, ownerID string, category model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.budgets[ownerID], category)
	return nil
}

// Future plan operations

func (m *MemoryStore) CreatePlan(ctx context.Context, ownerID string, plan *model.FuturePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	plan.OwnerID = ownerID

	if m.plans[ownerID] == nil {
		m.plans[ownerID] = make(map[string]*model.FuturePlan)
	}
	m.plans[ownerID][plan.ID] = clonePlan(plan)
	return nil
}

func (m *MemoryStore) GetPlan(ctx context.Context, ownerID, planID string) (*model.FuturePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plan, ok := m.plans[ownerID][planID]
	if !ok {
		return nil, fmt.Errorf("future plan %s: %w", planID, ErrNotFound)
	}
	return clonePlan(plan), nil
}

func (m *MemoryStore) UpdatePlan(ctx context.Context, ownerID string, plan *model.FuturePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[ownerID][plan.ID]; !ok {
		return fmt.Errorf("future plan %s: %w", plan.ID, ErrNotFound)
	}
	plan.OwnerID = ownerID
	m.plans[ownerID][plan.ID] = clonePlan(plan)
	return nil
}

func (m *MemoryStore) DeletePlan(ctx context.Context, ownerID, planID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.plans[ownerID], planID)
	return nil
}

func (m *MemoryStore) ListPlans(ctx context.Context, ownerID string) ([]*model.FuturePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id := range m.plans[ownerID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*model.FuturePlan, 0, len(ids))
	for _, id := range ids {
		result = append(result, clonePlan(m.plans[ownerID][id]))
	}
	return result, nil
}

// User operations

func (m *MemoryStore) UpsertUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *user
	if c.CreatedAt == "" {
		if existing, ok := m.users[user.ID]; ok {
			c.CreatedAt = existing.CreatedAt
		}
	}
	m.users[user.ID] = &c
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	c := *user
	return &c, nil
}

// Statement records

func (m *MemoryStore) CreateStatement(ctx context.Context, ownerID string, statement *model.Statement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if statement.ID == "" {
		statement.ID = uuid.New().String()
	}
	statement.OwnerID = ownerID

	if m.statements[ownerID] == nil {
		m.statements[ownerID] = make(map[string]*model.Statement)
	}
	c := *statement
	m.statements[ownerID][statement.ID] = &c
	return nil
}

func (m *MemoryStore) ListStatements(ctx context.Context, ownerID string) ([]*model.Statement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id := range m.statements[ownerID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*model.Statement, 0, len(ids))
	for _, id := range ids {
		c := *m.statements[ownerID][id]
		result = append(result, &c)
	}
	return result, nil
}
