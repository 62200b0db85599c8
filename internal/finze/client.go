// Package finze is a typed HTTP client for the Finze backend's public API.
// It wraps exactly the endpoints the diagnostics exercise; response shapes
// are decoded permissively because the backend enforces no schema.
package finze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Per-endpoint request caps. The AI endpoints get longer budgets because
// they call out to external models.
const (
	healthTimeout     = 10 * time.Second
	categoriesTimeout = 5 * time.Second
	categorizeTimeout = 5 * time.Second
	batchTimeout      = 10 * time.Second
	expensesTimeout   = 5 * time.Second
	analyzeTimeout    = 15 * time.Second
	insightsTimeout   = 10 * time.Second
)

// Client talks to one Finze backend instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// BaseURL returns the backend address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health fetches the subsystem health map.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	body, err := c.get(ctx, "/api/health", healthTimeout)
	if err != nil {
		return nil, err
	}

	var report HealthReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	report.Raw = body

	return &report, nil
}

// Categories fetches the list of known category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/categories", categoriesTimeout)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse categories response: %w", err)
	}

	return resp.Categories, nil
}

// Categorize asks the AI categorizer to classify a single expense.
func (c *Client) Categorize(ctx context.Context, req CategorizeRequest) (*Categorization, error) {
	body, err := c.post(ctx, "/api/categorize", categorizeTimeout, req)
	if err != nil {
		return nil, err
	}

	var result Categorization
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse categorization: %w", err)
	}

	return &result, nil
}

// CategorizeBatch classifies several expenses in one round trip.
func (c *Client) CategorizeBatch(ctx context.Context, expenses []CategorizeRequest) (*BatchResult, error) {
	payload := struct {
		Expenses []CategorizeRequest `json:"expenses"`
	}{Expenses: expenses}

	body, err := c.post(ctx, "/api/categorize-batch", batchTimeout, payload)
	if err != nil {
		return nil, err
	}

	var result BatchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse batch result: %w", err)
	}

	return &result, nil
}

// UserExpenses fetches the stored expense history for a user.
func (c *Client) UserExpenses(ctx context.Context, userID string) (*ExpenseHistory, error) {
	body, err := c.get(ctx, "/api/expenses/"+url.PathEscape(userID), expensesTimeout)
	if err != nil {
		return nil, err
	}

	var history ExpenseHistory
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to parse expense history: %w", err)
	}
	history.Raw = body

	return &history, nil
}

// AnalyzeSpending submits expenses for AI financial analysis.
func (c *Client) AnalyzeSpending(ctx context.Context, expenses []SampleExpense) (*SpendingAnalysis, error) {
	payload := struct {
		Expenses []SampleExpense `json:"expenses"`
	}{Expenses: expenses}

	body, err := c.post(ctx, "/api/ai/analyze-spending", analyzeTimeout, payload)
	if err != nil {
		return nil, err
	}

	var analysis SpendingAnalysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}

	return &analysis, nil
}

// Insights fetches the ad-hoc AI insight report for a user.
func (c *Client) Insights(ctx context.Context, userID string) (*InsightReport, error) {
	body, err := c.get(ctx, "/api/ai-insights/"+url.PathEscape(userID), insightsTimeout)
	if err != nil {
		return nil, err
	}

	var report InsightReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to parse insight report: %w", err)
	}
	report.Raw = body

	return &report, nil
}

func (c *Client) get(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, timeout time.Duration, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug("backend returned non-OK status",
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"body", string(body))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
