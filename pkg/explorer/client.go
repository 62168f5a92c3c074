// Package explorer provides a read-only HTTP client for public Spark
// block-explorer APIs. It backs the read-only account variant; it holds
// no key material and can never sign or spend.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds each explorer request.
const DefaultTimeout = 10 * time.Second

// Client is a JSON-over-HTTP block-explorer client.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a client targeting the given explorer base URL.
func New(baseURL string, logger zerolog.Logger) *Client {
	return NewWithTimeout(baseURL, DefaultTimeout, logger)
}

// NewWithTimeout creates a client with a custom HTTP timeout.
func NewWithTimeout(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logger.With().Str("component", "explorer").Logger(),
	}
}

// APIError is returned when the explorer responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("explorer error %d: %s", e.StatusCode, e.Message)
}

// BalanceResponse is the wire shape of a balance query.
type BalanceResponse struct {
	Address string `json:"address"`
	Sats    uint64 `json:"sats"`
}

// TransferRecord is the wire shape of one historical transfer.
type TransferRecord struct {
	ID         string    `json:"id"`
	Direction  string    `json:"direction"`
	AmountSats uint64    `json:"amount_sats"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type transfersResponse struct {
	Transfers []TransferRecord `json:"transfers"`
}

// AddressBalance fetches the confirmed balance of an address.
func (c *Client) AddressBalance(ctx context.Context, address string) (uint64, error) {
	var out BalanceResponse
	path := fmt.Sprintf("/v1/address/%s/balance", url.PathEscape(address))
	if err := c.get(ctx, path, &out); err != nil {
		return 0, err
	}
	return out.Sats, nil
}

// AddressTransfers fetches one page of an address's transfer history.
func (c *Client) AddressTransfers(ctx context.Context, address string, limit, offset int) ([]TransferRecord, error) {
	var out transfersResponse
	path := fmt.Sprintf("/v1/address/%s/transfers?limit=%d&offset=%d",
		url.PathEscape(address), limit, offset)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Transfers, nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("explorer request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
