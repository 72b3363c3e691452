package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the localhost fallback used when no base URL is
// configured.
const DefaultBaseURL = "http://localhost:8000/api"

// Client is the backend API client. Resource groups are stateless
// request shapers; all session state lives in the token store and the
// transport.
type Client struct {
	baseURL   string
	httpc     *http.Client
	store     TokenStore
	transport *Transport

	Auth      *AuthService
	JobOrders *JobOrdersService
	Receipts  *ReceiptsService
	Companies *CompaniesService
	Customers *CustomersService
	Inventory *InventoryService
	Sales     *SalesService
	Services  *ServicesService
}

type Config struct {
	// BaseURL of the backend, e.g. http://localhost:8000/api.
	// Defaults to DefaultBaseURL.
	BaseURL string
	// Store persists the token pair. Defaults to an in-memory store.
	Store TokenStore
	// Notifier receives the session-expired signal. Optional.
	Notifier ExpiryNotifier
	// Timeout per request. Defaults to 10s, matching the original
	// client configuration.
	Timeout time.Duration
	// Base is the underlying round tripper, overridable in tests.
	Base http.RoundTripper
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	store := cfg.Store
	if store == nil {
		store = &MemoryTokenStore{}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	transport := NewTransport(cfg.Base, store, baseURL+"/auth/refresh/", cfg.Notifier)
	c := &Client{
		baseURL:   baseURL,
		httpc:     &http.Client{Transport: transport, Timeout: timeout},
		store:     store,
		transport: transport,
	}
	c.Auth = &AuthService{c: c}
	c.JobOrders = &JobOrdersService{c: c}
	c.Receipts = &ReceiptsService{c: c}
	c.Companies = &CompaniesService{c: c}
	c.Customers = &CustomersService{c: c}
	c.Inventory = &InventoryService{c: c}
	c.Sales = &SalesService{c: c}
	c.Services = &ServicesService{c: c}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// send issues a JSON-bodied request and decodes the response into out.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("api: %s %s: %v", method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseError(resp)
		log.Printf("api: %s %s: %v", method, path, apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// listEnvelope is the paginated response shape some endpoints return
// instead of a bare array.
type listEnvelope struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  json.RawMessage `json:"results"`
}

// getList fetches a collection endpoint and normalizes both response
// shapes — bare array and paginated envelope — into one slice before
// anything downstream sees it.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return normalizeList[T](raw)
}

func normalizeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	var items []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
		return items, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode paginated response: %w", err)
	}
	if len(env.Results) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(env.Results, &items); err != nil {
		return nil, fmt.Errorf("decode paginated results: %w", err)
	}
	return items, nil
}
