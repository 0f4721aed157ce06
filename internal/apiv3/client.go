// Package apiv3 is a thin client for the Raydium api-v3 pool endpoints:
// pool discovery by mint pair and key hydration by pool id.
package apiv3

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api-v3.raydium.io"

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("apiv3 http %d", e.StatusCode)
	}
	return fmt.Sprintf("apiv3 http %d: %s", e.StatusCode, b)
}

// SearchPools fetches the first page of standard pools for a mint pair,
// sorted by liquidity descending.
func (c *Client) SearchPools(ctx context.Context, mint1, mint2 string) ([]PoolSummary, error) {
	if strings.TrimSpace(mint1) == "" || strings.TrimSpace(mint2) == "" {
		return nil, fmt.Errorf("both mints are required")
	}

	q := url.Values{}
	q.Set("mint1", mint1)
	q.Set("mint2", mint2)
	q.Set("poolType", "standard")
	q.Set("poolSortField", "liquidity")
	q.Set("sortType", "desc")
	q.Set("pageSize", "100")
	q.Set("page", "1")

	var page envelope[poolPage]
	if err := c.getJSON(ctx, "/pools/info/mint?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	if !page.Success {
		return nil, fmt.Errorf("pool search failed: %s", page.Msg)
	}
	return page.Data.Data, nil
}

// PoolKeysByID hydrates full key bundles for up to 100 pool ids.
func (c *Client) PoolKeysByID(ctx context.Context, ids []string) ([]PoolKeysInfo, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one pool id is required")
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))

	var keys envelope[[]PoolKeysInfo]
	if err := c.getJSON(ctx, "/pools/key/ids?"+q.Encode(), &keys); err != nil {
		return nil, err
	}
	if !keys.Success {
		return nil, fmt.Errorf("pool key fetch failed: %s", keys.Msg)
	}
	return keys.Data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: res.StatusCode, Body: body}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
