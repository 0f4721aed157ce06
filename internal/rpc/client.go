// Package rpc is a JSON-RPC client for the Solana HTTP endpoint with
// retry and timeout support. The central call is the batched
// getMultipleAccounts read: every account of a quote snapshot arrives
// from one request, observed at one slot.
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// Client is an HTTP client with retry and timeout support for Solana RPC
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logrus.Logger
}

// ClientConfig holds configuration for the RPC client
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *logrus.Logger
}

// NewClient creates a new RPC client with retry support
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:      cfg.BaseURL,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       cfg.Logger,
	}
}

// Call makes a JSON-RPC call with retry logic
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff,
				"method":  method,
			}).Debug("retrying RPC call")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2 // exponential backoff
		}

		resp, err := c.doRequest(ctx, data)
		if err != nil {
			lastErr = err
			continue
		}

		if err := json.Unmarshal(resp, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// GetMultipleAccounts fetches raw account data for all keys in one
// round trip. The returned slices are in request order, nil where the
// account does not exist, and the slot is the single observation point
// of the whole batch.
func (c *Client) GetMultipleAccounts(ctx context.Context, keys []solana.PublicKey) ([][]byte, uint64, error) {
	addrs := make([]string, len(keys))
	for i, k := range keys {
		addrs[i] = k.String()
	}
	params := []interface{}{
		addrs,
		map[string]interface{}{
			"encoding":   "base64",
			"commitment": "processed",
		},
	}

	var result multipleAccountsResponse
	if err := c.Call(ctx, "getMultipleAccounts", params, &result); err != nil {
		return nil, 0, err
	}
	if result.Error != nil {
		return nil, 0, result.Error
	}
	if len(result.Result.Value) != len(keys) {
		return nil, 0, fmt.Errorf("getMultipleAccounts returned %d accounts, want %d",
			len(result.Result.Value), len(keys))
	}

	out := make([][]byte, len(keys))
	for i, info := range result.Result.Value {
		if info == nil {
			continue
		}
		if len(info.Data) < 1 {
			return nil, 0, fmt.Errorf("account %s: empty data field", addrs[i])
		}
		raw, err := base64.StdEncoding.DecodeString(info.Data[0])
		if err != nil {
			return nil, 0, fmt.Errorf("account %s: decode base64: %w", addrs[i], err)
		}
		out[i] = raw
	}
	return out, result.Result.Context.Slot, nil
}

// GetLatestBlockhash fetches the current blockhash for transaction
// assembly.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	params := []interface{}{
		map[string]interface{}{"commitment": "finalized"},
	}

	var result latestBlockhashResponse
	if err := c.Call(ctx, "getLatestBlockhash", params, &result); err != nil {
		return solana.Hash{}, 0, err
	}
	if result.Error != nil {
		return solana.Hash{}, 0, result.Error
	}

	hash, err := solana.HashFromBase58(result.Result.Value.Blockhash)
	if err != nil {
		return solana.Hash{}, 0, fmt.Errorf("parse blockhash: %w", err)
	}
	return hash, result.Result.Value.LastValidBlockHeight, nil
}
