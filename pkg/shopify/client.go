package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	contractx "github.com/storepilot/storepilot/contract"
)

const (
	defaultAPIVersion    = "2024-01"
	maxResponseSizeBytes = 4 << 20
)

var ErrMissingStoreURL = errors.New("store url is required")

// Config describes one Shopify store connection. The env-prefixed form is
// used for the default store configured at startup.
type Config struct {
	URL        string        `envconfig:"URL" split_words:"true"`
	Token      string        `envconfig:"TOKEN" split_words:"true"`
	APIVersion string        `envconfig:"API_VERSION" split_words:"true" default:"2024-01"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client talks to a single store's Admin REST API.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, ErrMissingStoreURL
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid store url: %w", err)
	}

	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

func MustNew(cfg Config, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// BaseURL returns the normalized store URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping fetches the shop resource as a cheap credential/connectivity check.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Shop Shop `json:"shop"`
	}
	return c.do(ctx, http.MethodGet, "shop.json", nil, nil, &out)
}

// SearchProducts queries the store catalog by title.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))
	if strings.TrimSpace(query) != "" {
		q.Set("title", strings.TrimSpace(query))
	}

	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "products.json", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// ListProducts fetches up to limit products without any filter.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))

	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "products.json", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	path := fmt.Sprintf("products/%d.json", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// ListOrders fetches recent orders, optionally filtered by status
// (open/closed/cancelled/any).
func (c *Client) ListOrders(ctx context.Context, limit int, status string) ([]Order, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))
	if strings.TrimSpace(status) != "" {
		q.Set("status", strings.TrimSpace(status))
	}

	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "orders.json", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// CreateOrder creates a pending order for a single variant line.
func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft) (*Order, error) {
	if draft.VariantID == 0 {
		return nil, fmt.Errorf("%w: variant id is required", contractx.ErrValidation)
	}
	if draft.Quantity <= 0 {
		draft.Quantity = 1
	}

	body := map[string]any{
		"order": map[string]any{
			"line_items": []map[string]any{
				{
					"variant_id": draft.VariantID,
					"quantity":   draft.Quantity,
				},
			},
			"customer":         draft.Customer,
			"shipping_address": draft.ShippingAddress,
			"financial_status": "pending",
			"note":             draft.Note,
		},
	}

	var out struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "orders.json", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("%w: read store response: %v", contractx.ErrUpstream, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: store http status=%d body=%s", contractx.ErrUpstream, resp.StatusCode, truncate(raw, 512))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode store response: %v", contractx.ErrUpstream, err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 250 {
		return 250
	}
	return limit
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
