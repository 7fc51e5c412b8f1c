package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hyperscout/internal/config"
	"github.com/hyperscout/internal/metrics"
	"github.com/hyperscout/internal/ratelimit"
)

// Endpoint names of the info API request types.
const (
	EndpointPortfolio          = "portfolio"
	EndpointClearinghouseState = "clearinghouseState"
)

// Client talks to the Hyperliquid info API. A single pacing gate is shared
// by both endpoints so the global inter-request spacing holds regardless of
// which data is being fetched.
type Client struct {
	baseURL    string
	httpClient *http.Client
	gate       *ratelimit.Gate
}

// NewClient creates a new info API client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.APIBaseURL,
		httpClient: &http.Client{Timeout: cfg.APITimeout},
		gate:       ratelimit.NewGate(cfg.FetchInterval),
	}
}

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// Portfolio fetches a wallet's historical PnL and account-value series.
func (c *Client) Portfolio(ctx context.Context, address string) (Portfolio, error) {
	var portfolio Portfolio
	if err := c.post(ctx, EndpointPortfolio, address, &portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// ClearinghouseState fetches a wallet's current account state and open
// positions.
func (c *Client) ClearinghouseState(ctx context.Context, address string) (*ClearinghouseState, error) {
	var state ClearinghouseState
	if err := c.post(ctx, EndpointClearinghouseState, address, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) post(ctx context.Context, requestType, address string, out interface{}) error {
	if err := c.gate.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(infoRequest{Type: requestType, User: address})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(requestType, "error", time.Since(start))
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordAPIRequest(requestType, "error", time.Since(start))
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordAPIRequest(requestType, "error", time.Since(start))
		return fmt.Errorf("decode response: %w", err)
	}

	metrics.RecordAPIRequest(requestType, "success", time.Since(start))
	return nil
}
