// Package extraction turns bank-statement text into structured expense and
// budget candidates using the Gemini API, with keyword-based fallbacks.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/importer"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient extracts financial records from free text via the Gemini API.
type GeminiClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	retry      RetryConfig
}

// NewGeminiClient creates a new Gemini extraction client.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: defaultGeminiBaseURL,
		retry:   DefaultGeminiRetryConfig,
	}
}

// SetBaseURL overrides the Gemini endpoint, for tests and proxies.
func (c *GeminiClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Configured reports whether an API key is present.
func (c *GeminiClient) Configured() bool {
	return c.apiKey != ""
}

// geminiExpense is the shape Gemini is asked to return for each expense.
type geminiExpense struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

type geminiExpenseResponse struct {
	Expenses []geminiExpense `json:"expenses"`
}

type geminiBudget struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type geminiBudgetResponse struct {
	Budgets []geminiBudget `json:"budgets"`
}

type geminiCategoryResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// ExtractExpenses asks Gemini to pull individual transactions out of pasted
// or PDF-extracted statement text. Amounts come back as candidates, not
// validated expenses; the import normalizer decides what is accepted.
// maxTokens caps the model's output; pass 0 for the default.
func (c *GeminiClient) ExtractExpenses(ctx context.Context, text string, maxTokens int) ([]importer.ExpenseCandidate, error) {
	if !c.Configured() {
		return nil, &ExtractionError{Code: ErrNotConfigured, Message: "Gemini API key not configured", Method: "gemini"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{Code: ErrInvalidDocument, Message: "no text to extract from", Method: "gemini"}
	}

	prompt := fmt.Sprintf(`You are a personal finance assistant. Extract every individual expense transaction from the text below.

Allowed categories (use exactly these names): %s

Rules:
- One entry per transaction. Do not merge or summarize.
- date must be in YYYY-MM-DD format. If the year is missing, assume the current year.
- amount is the transaction value as a number. Use negative numbers for refunds.
- Income such as salary or wages uses the category "Salary".
- If no listed category fits, use "Other". Never invent a category.

Return JSON only:
{"expenses": [{"date": "YYYY-MM-DD", "description": "...", "amount": 0.00, "category": "..."}]}

Text:
%s`, strings.Join(model.CategoryNames(), ", "), text)

	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	result, err := WithRetry(ctx, c.retry, func(ctx context.Context) (*geminiExpenseResponse, error) {
		raw, err := c.callGemini(ctx, prompt, maxTokens)
		if err != nil {
			return nil, err
		}
		var parsed geminiExpenseResponse
		if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
			return nil, &ExtractionError{
				Code:    ErrEmptyResponse,
				Message: "parse expense extraction response",
				Method:  "gemini",
				Cause:   err,
			}
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Expenses) == 0 {
		return nil, &ExtractionError{Code: ErrNoRecordsFound, Message: "no transactions found in text", Method: "gemini"}
	}

	candidates := make([]importer.ExpenseCandidate, 0, len(result.Expenses))
	for _, e := range result.Expenses {
		candidates = append(candidates, importer.ExpenseCandidate{
			Date:        e.Date,
			Description: e.Description,
			Amount:      strconv.FormatFloat(e.Amount, 'f', -1, 64),
			Category:    e.Category,
		})
	}
	return candidates, nil
}

// ExtractBudgets asks Gemini to pull per-category budget amounts out of text.
func (c *GeminiClient) ExtractBudgets(ctx context.Context, text string) ([]importer.BudgetCandidate, error) {
	if !c.Configured() {
		return nil, &ExtractionError{Code: ErrNotConfigured, Message: "Gemini API key not configured", Method: "gemini"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{Code: ErrInvalidDocument, Message: "no text to extract from", Method: "gemini"}
	}

	prompt := fmt.Sprintf(`You are a personal finance assistant. Extract per-category budget amounts from the text below.

Allowed categories (use exactly these names): %s

Rules:
- At most one entry per category.
- "Salary" is income, not a budget. Never emit it.
- amount is the monthly budget as a non-negative number.
- If no listed category fits, use "Other". Never invent a category.

Return JSON only:
{"budgets": [{"category": "...", "amount": 0.00}]}

Text:
%s`, strings.Join(model.BudgetableNames(), ", "), text)

	result, err := WithRetry(ctx, c.retry, func(ctx context.Context) (*geminiBudgetResponse, error) {
		raw, err := c.callGemini(ctx, prompt, 2048)
		if err != nil {
			return nil, err
		}
		var parsed geminiBudgetResponse
		if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
			return nil, &ExtractionError{
				Code:    ErrEmptyResponse,
				Message: "parse budget extraction response",
				Method:  "gemini",
				Cause:   err,
			}
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Budgets) == 0 {
		return nil, &ExtractionError{Code: ErrNoRecordsFound, Message: "no budgets found in text", Method: "gemini"}
	}

	candidates := make([]importer.BudgetCandidate, 0, len(result.Budgets))
	for _, b := range result.Budgets {
		candidates = append(candidates, importer.BudgetCandidate{
			Category: b.Category,
			Amount:   strconv.FormatFloat(b.Amount, 'f', -1, 64),
		})
	}
	return candidates, nil
}

// SuggestCategory asks Gemini to categorize a single expense description.
// A category outside the registry is remapped to Other rather than rejected.
func (c *GeminiClient) SuggestCategory(ctx context.Context, description string) (model.Category, float64, error) {
	if !c.Configured() {
		return "", 0, &ExtractionError{Code: ErrNotConfigured, Message: "Gemini API key not configured", Method: "gemini"}
	}

	prompt := fmt.Sprintf(`Categorize this expense description into exactly one of: %s

Return JSON only:
{"category": "...", "confidence": 0.0-1.0}

Description: %s`, strings.Join(model.CategoryNames(), ", "), description)

	result, err := WithRetry(ctx, c.retry, func(ctx context.Context) (*geminiCategoryResponse, error) {
		raw, err := c.callGemini(ctx, prompt, 256)
		if err != nil {
			return nil, err
		}
		var parsed geminiCategoryResponse
		if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
			return nil, &ExtractionError{
				Code:    ErrEmptyResponse,
				Message: "parse category response",
				Method:  "gemini",
				Cause:   err,
			}
		}
		return &parsed, nil
	})
	if err != nil {
		return "", 0, err
	}

	category, ok := model.ParseCategory(result.Category)
	if !ok {
		return model.CategoryOther, result.Confidence * 0.5, nil
	}
	return category, result.Confidence, nil
}

// callGemini calls the Gemini API with a text prompt and returns the raw
// text of the first candidate part.
func (c *GeminiClient) callGemini(ctx context.Context, prompt string, maxTokens int) (string, error) {
	url := fmt.Sprintf("%s/models/gemini-2.0-flash:generateContent?key=%s", c.baseURL, c.apiKey)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.1,
			"maxOutputTokens":  maxTokens,
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ExtractionError{
			Code:      ErrGeminiUnavailable,
			Message:   "Gemini API call failed",
			Method:    "gemini",
			Retryable: true,
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &ExtractionError{
			Code:      ErrGeminiRateLimited,
			Message:   "Gemini API rate limited",
			Method:    "gemini",
			Retryable: true,
		}
	case resp.StatusCode >= 500:
		return "", &ExtractionError{
			Code:      ErrGeminiUnavailable,
			Message:   fmt.Sprintf("Gemini API error %d", resp.StatusCode),
			Method:    "gemini",
			Retryable: true,
			Cause:     fmt.Errorf("%s", string(respBody)),
		}
	case resp.StatusCode != http.StatusOK:
		return "", &ExtractionError{
			Code:    ErrGeminiUnavailable,
			Message: fmt.Sprintf("Gemini API error %d", resp.StatusCode),
			Method:  "gemini",
			Cause:   fmt.Errorf("%s", string(respBody)),
		}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", fmt.Errorf("parse Gemini response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &ExtractionError{
			Code:      ErrEmptyResponse,
			Message:   "empty Gemini response",
			Method:    "gemini",
			Retryable: true,
		}
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// extractJSON strips markdown code fences and isolates the first balanced
// JSON object in a model response. Models sometimes wrap their JSON in prose
// despite being asked not to.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return text[start:]
}
