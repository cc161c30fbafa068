package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/codewithvis/Spend-Wise/internal/model"
)

// FirestoreStore implements the Store interface using Firestore.
//
// Document layout matches the original application:
//
//	users/{uid}
//	users/{uid}/expenses/{expenseId}
//	users/{uid}/budgets/{category}
//	users/{uid}/futurePlans/{planId}
//	users/{uid}/statements/{statementId}
//
// The budget document ID is the category itself, which gives the
// one-budget-per-category invariant for free.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

func (s *FirestoreStore) userDoc(ownerID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(ownerID)
}

// notFound maps a Firestore missing-document error onto ErrNotFound.
func notFound(snap *firestore.DocumentSnapshot, err error, what, id string) error {
	if snap != nil && !snap.Exists() {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return err
}

// applyCursorPagination adds OrderBy + StartAfter + Limit to a query for
// cursor-based pagination. It fetches pageSize+1 docs so the caller can
// detect whether a next page exists.
func applyCursorPagination(query firestore.Query, pageSize int32, pageToken string) (firestore.Query, int, error) {
	query = query.OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, 0, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.StartAfter(docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize) + 1)
	return query, int(pageSize), nil
}

// applyDateAwarePagination handles pagination for date-filtered listings.
// Firestore requires ordering on the inequality field first, so the query
// orders by date then document ID, and StartAfter must supply both values.
// The cursor document is re-fetched to recover its date.
func applyDateAwarePagination(ctx context.Context, query firestore.Query, coll *firestore.CollectionRef, pageSize int32, pageToken string) (firestore.Query, int, error) {
	query = query.OrderBy("date", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, 0, fmt.Errorf("invalid page token: %w", err)
		}
		cursorDoc, err := coll.Doc(docID).Get(ctx)
		if err != nil {
			return query, 0, fmt.Errorf("fetch cursor document %s: %w", docID, err)
		}
		query = query.StartAfter(cursorDoc.Data()["date"], docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize) + 1)
	return query, int(pageSize), nil
}

// Expense operations

func (s *FirestoreStore) CreateExpense(ctx context.Context, ownerID string, expense *model.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	expense.OwnerID = ownerID

	_, err := s.userDoc(ownerID).Collection("expenses").Doc(expense.ID).Set(ctx, expense)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetExpense(ctx context.Context, ownerID, expenseID string) (*model.Expense, error) {
	snap, err := s.userDoc(ownerID).Collection("expenses").Doc(expenseID).Get(ctx)
	if err != nil {
		return nil, notFound(snap, err, "expense", expenseID)
	}

	var expense model.Expense
	if err := snap.DataTo(&expense); err != nil {
		return nil, fmt.Errorf("decode expense: %w", err)
	}
	expense.ID = snap.Ref.ID
	return &expense, nil
}

func (s *FirestoreStore) UpdateExpense(ctx context.Context, ownerID string, expense *model.Expense) error {
	expense.OwnerID = ownerID
	_, err := s.userDoc(ownerID).Collection("expenses").Doc(expense.ID).Set(ctx, expense)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteExpense(ctx context.Context, ownerID, expenseID string) error {
	_, err := s.userDoc(ownerID).Collection("expenses").Doc(expenseID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListExpenses(ctx context.Context, ownerID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Expense, string, error) {
	coll := s.userDoc(ownerID).Collection("expenses")
	query := coll.Query

	// Dates are RFC 3339 strings, so lexicographic range filters are
	// chronologically correct.
	if startDate != nil {
		query = query.Where("date", ">=", startDate.UTC().Format(time.RFC3339))
	}
	if endDate != nil {
		query = query.Where("date", "<=", endDate.UTC().Format(time.RFC3339))
	}

	var (
		limit int
		err   error
	)
	if startDate != nil || endDate != nil {
		query, limit, err = applyDateAwarePagination(ctx, query, coll, pageSize, pageToken)
	} else {
		query, limit, err = applyCursorPagination(query, pageSize, pageToken)
	}
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("list expenses: %w", err)
	}

	var nextToken string
	if len(docs) > limit {
		docs = docs[:limit]
		nextToken = EncodePageToken(docs[len(docs)-1].Ref.ID)
	}

	expenses := make([]*model.Expense, 0, len(docs))
	for _, doc := range docs {
		var expense model.Expense
		if err := doc.DataTo(&expense); err != nil {
			return nil, "", fmt.Errorf("decode expense %s: %w", doc.Ref.ID, err)
		}
		expense.ID = doc.Ref.ID
		expenses = append(expenses, &expense)
	}
	return expenses, nextToken, nil
}

// Budget operations

func (s *FirestoreStore) GetBudget(ctx context.Context, ownerID string, category model.Category) (*model.Budget, error) {
	snap, err := s.userDoc(ownerID).Collection("budgets").Doc(string(category)).Get(ctx)
	if err != nil {
		return nil, notFound(snap, err, "budget", string(category))
	}

	var budget model.Budget
	if err := snap.DataTo(&budget); err != nil {
		return nil, fmt.Errorf("decode budget: %w", err)
	}
	return &budget, nil
}

func (s *FirestoreStore) ListBudgets(ctx context.Context, ownerID string) ([]*model.Budget, error) {
	iter := s.userDoc(ownerID).Collection("budgets").Documents(ctx)
	defer iter.Stop()

	byCategory := make(map[model.Category]*model.Budget)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list budgets: %w", err)
		}
		var budget model.Budget
		if err := doc.DataTo(&budget); err != nil {
			return nil, fmt.Errorf("decode budget %s: %w", doc.Ref.ID, err)
		}
		byCategory[budget.Category] = &budget
	}

	// Registry order, matching MemoryStore listings.
	budgets := make([]*model.Budget, 0, len(byCategory))
	for _, category := range model.Categories {
		if budget, ok := byCategory[category]; ok {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

func (s *FirestoreStore) UpsertBudget(ctx context.Context, ownerID string, budget *model.Budget) error {
	budget.OwnerID = ownerID
	_, err := s.userDoc(ownerID).Collection("budgets").Doc(string(budget.Category)).Set(ctx, budget)
	if err != nil {
		return fmt.Errorf("upsert budget %s: %w", budget.Category, err)
	}
	return nil
}

func (s *FirestoreStore) SetBudgetAmount(ctx context.Context, ownerID string, category model.Category, amount float64) error {
	_, err := s.userDoc(ownerID).Collection("budgets").Doc(string(category)).Set(ctx, map[string]interface{}{
		"ownerId":  ownerID,
		"category": string(category),
		"amount":   amount,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("set budget amount %s: %w", category, err)
	}
	return nil
}

func (s *FirestoreStore) SetSpendingHistory(ctx context.Context, ownerID string, category model.Category, entries []model.SpendingEntry) error {
	if entries == nil {
		entries = []model.SpendingEntry{}
	}
	_, err := s.userDoc(ownerID).Collection("budgets").Doc(string(category)).Set(ctx, map[string]interface{}{
		"ownerId":         ownerID,
		"category":        string(category),
		"spendingHistory": entries,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("set spending history %s: %w", category, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteBudget(ctx context.Context, ownerID string, category model.Category) error {
	_, err := s.userDoc(ownerID).Collection("budgets").Doc(string(category)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete budget %s: %w", category, err)
	}
	return nil
}

// Future plan operations

func (s *FirestoreStore) CreatePlan(ctx context.Context, ownerID string, plan *model.FuturePlan) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	plan.OwnerID = ownerID

	_, err := s.userDoc(ownerID).Collection("futurePlans").Doc(plan.ID).Set(ctx, plan)
	if err != nil {
		return fmt.Errorf("create future plan: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetPlan(ctx context.Context, ownerID, planID string) (*model.FuturePlan, error) {
	snap, err := s.userDoc(ownerID).Collection("futurePlans").Doc(planID).Get(ctx)
	if err != nil {
		return nil, notFound(snap, err, "future plan", planID)
	}

	var plan model.FuturePlan
	if err := snap.DataTo(&plan); err != nil {
		return nil, fmt.Errorf("decode future plan: %w", err)
	}
	plan.ID = snap.Ref.ID
	return &plan, nil
}

func (s *FirestoreStore) UpdatePlan(ctx context.Context, ownerID string, plan *model.FuturePlan) error {
	plan.OwnerID = ownerID
	_, err := s.userDoc(ownerID).Collection("futurePlans").Doc(plan.ID).Set(ctx, plan)
	if err != nil {
		return fmt.Errorf("update future plan: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeletePlan(ctx context.Context, ownerID, planID string) error {
	_, err := s.userDoc(ownerID).Collection("futurePlans").Doc(planID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete future plan: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListPlans(ctx context.Context, ownerID string) ([]*model.FuturePlan, error) {
	iter := s.userDoc(ownerID).Collection("futurePlans").Documents(ctx)
	defer iter.Stop()

	var plans []*model.FuturePlan
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list future plans: %w", err)
		}
		var plan model.FuturePlan
		if err := doc.DataTo(&plan); err != nil {
			return nil, fmt.Errorf("decode future plan %s: %w", doc.Ref.ID, err)
		}
		plan.ID = doc.Ref.ID
		plans = append(plans, &plan)
	}
	return plans, nil
}

// User operations

func (s *FirestoreStore) UpsertUser(ctx context.Context, user *model.User) error {
	// MergeAll requires a map payload. CreatedAt is only written when set,
	// so re-syncing never clears the original value.
	payload := map[string]interface{}{
		"id":          user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
	}
	if user.CreatedAt != "" {
		payload["createdAt"] = user.CreatedAt
	}
	_, err := s.client.Collection("users").Doc(user.ID).Set(ctx, payload, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	snap, err := s.client.Collection("users").Doc(userID).Get(ctx)
	if err != nil {
		return nil, notFound(snap, err, "user", userID)
	}

	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

// Statement records

func (s *FirestoreStore) CreateStatement(ctx context.Context, ownerID string, statement *model.Statement) error {
	if statement.ID == "" {
		statement.ID = uuid.New().String()
	}
	statement.OwnerID = ownerID

	_, err := s.userDoc(ownerID).Collection("statements").Doc(statement.ID).Set(ctx, statement)
	if err != nil {
		return fmt.Errorf("create statement: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListStatements(ctx context.Context, ownerID string) ([]*model.Statement, error) {
	iter := s.userDoc(ownerID).Collection("statements").Documents(ctx)
	defer iter.Stop()

	var statements []*model.Statement
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list statements: %w", err)
		}
		var statement model.Statement
		if err := doc.DataTo(&statement); err != nil {
			return nil, fmt.Errorf("decode statement %s: %w", doc.Ref.ID, err)
		}
		statement.ID = doc.Ref.ID
		statements = append(statements, &statement)
	}
	return statements, nil
}
