package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marketcalls/FinSights/internal/dto"

	"golang.org/x/time/rate"
)

// APIError is a non-OK response from the Perplexity API. The status code
// drives credential classification during key validation.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("perplexity API returned %d: %s", e.StatusCode, e.Body)
}

// PerplexityClient issues chat-style and search-style calls against the
// Perplexity REST API with one credential.
type PerplexityClient struct {
	client         *http.Client
	baseURL        string
	apiKey         string
	requestLimiter *rate.Limiter
}

// NewPerplexityClient creates a client bound to one API key.
func NewPerplexityClient(baseURL, apiKey string, timeout time.Duration, maxRequestPerMinute int) *PerplexityClient {
	secondsPerRequest := time.Minute / time.Duration(maxRequestPerMinute)
	return &PerplexityClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:        baseURL,
		apiKey:         apiKey,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// CreateChatCompletion calls the chat completions endpoint.
func (c *PerplexityClient) CreateChatCompletion(ctx context.Context, req *dto.ChatCompletionRequest) (*dto.ChatCompletionResponse, error) {
	var resp dto.ChatCompletionResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSearch calls the search endpoint with multiple query strings.
func (c *PerplexityClient) CreateSearch(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	var resp dto.SearchResponse
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *PerplexityClient) post(ctx context.Context, path string, payload, out interface{}) error {
	if err := c.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for request limit: %w", err)
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Perplexity API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}
