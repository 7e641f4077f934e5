package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/primosportswear/storefront/pkg/config"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

const responseBodyReadLimit int64 = 4096

var centavosPerPeso = decimal.NewFromInt(100)

// PaymentLink is the hosted checkout issued by the provider.
type PaymentLink struct {
	ID          string
	CheckoutURL string
}

// Client wraps the payment-link provider's links API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the payment-link client from config.
func NewClient(cfg config.GatewayConfig, opts ...Option) (*Client, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, fmt.Errorf("gateway secret key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("gateway base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		// The provider uses HTTP basic auth with the secret key as the
		// username and an empty password.
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(secret+":")),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// CreateLink issues a hosted payment link for the given peso amount.
func (c *Client) CreateLink(ctx context.Context, amount decimal.Decimal, description string) (*PaymentLink, error) {
	if amount.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	payload := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"amount":      amount.Mul(centavosPerPeso).Round(0).IntPart(),
				"description": description,
			},
		},
	}

	var resp struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				CheckoutURL string `json:"checkout_url"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := c.do(ctx, "/v1/links", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Data.ID == "" || resp.Data.Attributes.CheckoutURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "payment link response missing id or checkout url")
	}
	return &PaymentLink{ID: resp.Data.ID, CheckoutURL: resp.Data.Attributes.CheckoutURL}, nil
}

// ArchiveLink marks a payment link as no longer usable. Callers treat failures
// as best-effort cleanup, not as a reason to abort.
func (c *Client) ArchiveLink(ctx context.Context, linkID string) error {
	if strings.TrimSpace(linkID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "link id is required")
	}
	path := fmt.Sprintf("/v1/links/%s/archive", url.PathEscape(linkID))
	return c.do(ctx, path, map[string]any{}, nil)
}

func (c *Client) do(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "call payment provider")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.New(pkgerrors.CodeGateway,
			fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decode provider response")
	}
	return nil
}
