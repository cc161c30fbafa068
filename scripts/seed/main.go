// Command seed loads demo data into a running SpendWise backend over its
// HTTP API. Point it at a server started with the memory store or with
// SKIP_AUTH=true.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}
	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "local-dev-user"
	}

	log.Printf("Seeding demo data for user %s via %s", userID, apiURL)

	c := &client{apiURL: apiURL, userID: userID, http: &http.Client{Timeout: 10 * time.Second}}

	if err := c.seedExpenses(); err != nil {
		log.Fatalf("Failed to seed expenses: %v", err)
	}
	if err := c.seedBudgets(); err != nil {
		log.Fatalf("Failed to seed budgets: %v", err)
	}
	if err := c.seedPlans(); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}

	log.Println("Successfully seeded all demo data")
}

type client struct {
	apiURL string
	userID string
	http   *http.Client
}

func (c *client) post(path string, body interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Debug-Impersonate-User", c.userID)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *client) seedExpenses() error {
	monthStart := time.Now().UTC().AddDate(0, 0, -time.Now().UTC().Day()+1)
	day := func(n int) string {
		return monthStart.AddDate(0, 0, n-1).Format("2006-01-02")
	}

	expenses := []map[string]interface{}{
		{"description": "Monthly salary", "amount": 5200.00, "category": "Salary", "date": day(1)},
		{"description": "Rent payment", "amount": 1650.00, "category": "Rent", "date": day(1)},
		{"description": "Woolworths groceries", "amount": 142.35, "category": "Groceries", "date": day(3)},
		{"description": "Opal card top-up", "amount": 50.00, "category": "Transportation", "date": day(4)},
		{"description": "Dinner with friends", "amount": 86.50, "category": "Dining", "date": day(6)},
		{"description": "Netflix subscription", "amount": 22.99, "category": "Entertainment", "date": day(7)},
		{"description": "Electricity bill", "amount": 134.20, "category": "Utilities", "date": day(10)},
		{"description": "New running shoes", "amount": 189.00, "category": "Shopping", "date": day(12)},
		{"description": "Weekend trip fuel", "amount": 78.40, "category": "Travel", "date": day(14)},
		{"description": "Coffee", "amount": 5.50, "category": "Dining", "date": day(15)},
	}

	for _, e := range expenses {
		if err := c.post("/v1/expenses", e); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d expenses", len(expenses))
	return nil
}

func (c *client) seedBudgets() error {
	budgets := map[string]interface{}{
		"budgets": []map[string]interface{}{
			{"category": "Groceries", "amount": 600},
			{"category": "Dining", "amount": 300},
			{"category": "Transportation", "amount": 150},
			{"category": "Entertainment", "amount": 100},
			{"category": "Utilities", "amount": 250},
			{"category": "Rent", "amount": 1700},
			{"category": "Shopping", "amount": 200},
			{"category": "Travel", "amount": 150},
		},
	}
	if err := c.post("/v1/budgets", budgets); err != nil {
		return err
	}
	log.Println("Seeded budgets")
	return nil
}

func (c *client) seedPlans() error {
	plans := []map[string]interface{}{
		{
			"description": "New laptop",
			"amount":      2400.00,
			"category":    "Shopping",
			"targetDate":  time.Now().UTC().AddDate(0, 3, 0).Format("2006-01-02"),
		},
		{
			"description": "Japan holiday",
			"amount":      4800.00,
			"category":    "Travel",
			"targetDate":  time.Now().UTC().AddDate(0, 8, 0).Format("2006-01-02"),
		},
	}

	for _, p := range plans {
		if err := c.post("/v1/plans", p); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d future plans", len(plans))
	return nil
}
