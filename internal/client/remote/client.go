// Package remote talks to the ordering service on behalf of a client
// replica: REST calls for placing and polling orders, and the websocket
// event channel for pushed updates.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	api "ordering/internal/adapters/in/http"
	"ordering/internal/pkg/wire"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBody        = 4 << 20
)

// ErrNotFound is returned when the server does not know the order.
var ErrNotFound = errors.New("order not found")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d %s: %s", e.Status, e.Code, e.Message)
}

// Retryable reports whether the request may succeed when sent again.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusServiceUnavailable
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a client for the service at baseURL, e.g. http://localhost:8080.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("server url %q must be an absolute http(s) url", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// PlaceTableOrder submits a table cart and returns the stored order.
func (c *Client) PlaceTableOrder(ctx context.Context, req api.TableOrderRequest) (wire.Order, error) {
	var placed wire.Order
	err := c.do(ctx, http.MethodPost, "/api/v1/orders/table", req, http.StatusCreated, &placed)
	return placed, err
}

// Reprice prices lines against the current menu without placing anything.
func (c *Client) Reprice(ctx context.Context, lines []api.CartLine) (api.RepriceResponse, error) {
	var resp api.RepriceResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/orders/reprice", api.RepriceRequest{Lines: lines}, http.StatusOK, &resp)
	return resp, err
}

// GetOrder fetches the current snapshot of one order.
func (c *Client) GetOrder(ctx context.Context, id string) (wire.Order, error) {
	var o wire.Order
	err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+url.PathEscape(id), nil, http.StatusOK, &o)
	return o, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		apiErr := &APIError{Status: resp.StatusCode}
		var e api.Error
		if json.Unmarshal(data, &e) == nil {
			apiErr.Code, apiErr.Message = e.Code, e.Message
		}
		return apiErr
	}

	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
