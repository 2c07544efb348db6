package dedge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production analytics endpoint.
const DefaultBaseURL = "https://api.dedge.pro"

// DefaultTimeout bounds a single HTTP round trip, not the whole job.
const DefaultTimeout = 30 * time.Second

// Client talks to the d-edge wallet analytics API. Batch processing is
// asynchronous: SubmitBatch starts a job, BatchStatus polls it.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new analytics API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitBatch submits one batch of wallet addresses and returns the task ID
// to poll.
func (c *Client) SubmitBatch(ctx context.Context, addrs []string) (string, error) {
	body, err := json.Marshal(submitRequest{WalletAddresses: addrs})
	if err != nil {
		return "", fmt.Errorf("marshal batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process_wallet_batch", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	var resp submitResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("submit batch: %w", err)
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("submit batch: response missing task_id")
	}
	return resp.TaskID, nil
}

// BatchStatus returns the current status of a submitted batch job.
func (c *Client) BatchStatus(ctx context.Context, taskID string) (*BatchStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/batch_status/"+taskID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	var status BatchStatus
	if err := c.do(req, &status); err != nil {
		return nil, fmt.Errorf("batch status: %w", err)
	}
	return &status, nil
}

// do executes the request and decodes the JSON body into result. Non-2xx
// responses become *APIError carrying the body's detail field when present.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if err := json.Unmarshal(raw, &errResp); err == nil {
			apiErr.Detail = errResp.Detail
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
