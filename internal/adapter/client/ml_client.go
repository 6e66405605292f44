package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LogitsRequest asks the model runtime to tokenize and run one forward pass
type LogitsRequest struct {
	Text       string `json:"text"`
	MaxLength  int    `json:"max_length"`
	Truncation bool   `json:"truncation"`
	RequestID  string `json:"request_id,omitempty"`
}

// LogitsResponse carries the raw classifier output for one text
type LogitsResponse struct {
	Logits       []float64 `json:"logits"`
	ModelVersion string    `json:"model_version"`
	RequestID    string    `json:"request_id,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version"`
}

// MLClient is an HTTP client for the model runtime that serves the
// artifact directory
type MLClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMLClient creates a new model runtime client
func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	return &MLClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Logits sends a single text and returns the classifier logits.
// Texts longer than maxLength tokens are truncated by the runtime.
func (c *MLClient) Logits(ctx context.Context, text string, maxLength int, requestID string) (*LogitsResponse, error) {
	reqBody := LogitsRequest{
		Text:       text,
		MaxLength:  maxLength,
		Truncation: true,
		RequestID:  requestID,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logits", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("model runtime returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("model runtime returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result LogitsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Health checks the model runtime health
func (c *MLClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model runtime returned status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Ready checks if the model runtime has loaded the artifact
func (c *MLClient) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ready", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model runtime not ready: status %d", resp.StatusCode)
	}

	return nil
}
