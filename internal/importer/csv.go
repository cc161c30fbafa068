package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var (
	expenseCSVHeader = []string{"Date", "Description", "Amount", "Category"}
	budgetCSVHeader  = []string{"Category", "Amount"}
)

// ParseExpenseCSV reads an expense CSV with the exact header
// Date,Description,Amount,Category and returns one candidate per data row.
// A structurally malformed file (bad header, unbalanced quotes, wrong field
// counts) is a top-level error; per-row content problems are left for the
// validators.
func ParseExpenseCSV(r io.Reader) ([]ExpenseCandidate, error) {
	rows, err := readCSV(r, expenseCSVHeader)
	if err != nil {
		return nil, err
	}

	candidates := make([]ExpenseCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, ExpenseCandidate{
			Date:        row[0],
			Description: row[1],
			Amount:      row[2],
			Category:    row[3],
		})
	}
	return candidates, nil
}

// ParseBudgetCSV reads a budget CSV with the exact header Category,Amount.
func ParseBudgetCSV(r io.Reader) ([]BudgetCandidate, error) {
	rows, err := readCSV(r, budgetCSVHeader)
	if err != nil {
		return nil, err
	}

	candidates := make([]BudgetCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, BudgetCandidate{
			Category: row[0],
			Amount:   row[1],
		})
	}
	return candidates, nil
}

func readCSV(r io.Reader, header []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	if !headerMatches(first, header) {
		return nil, fmt.Errorf("unexpected CSV header %q, want %q",
			strings.Join(first, ","), strings.Join(header, ","))
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}
