package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/primosportswear/storefront/pkg/config"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
)

const responseBodyReadLimit int64 = 4096

// Client is a typed wrapper over the remote jersey-store REST API. Every call
// is independent; the client holds no state beyond its connection settings.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// NewClient builds the store backend client from config.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "products", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CartItems fetches the raw cart snapshot for one user.
func (c *Client) CartItems(ctx context.Context, userID string) ([]RawCartEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	query := url.Values{"userID": {userID}}
	var resp struct {
		Status string         `json:"status"`
		Data   []RawCartEntry `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "getCartItems", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AddToCart records one add-to-cart event for the user.
func (c *Client) AddToCart(ctx context.Context, userID, productID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	body := map[string]string{"userID": userID, "productID": productID}
	return c.do(ctx, http.MethodPost, "AddToCart", nil, body, nil)
}

// DeleteFromCart removes the user's cart rows for one product. The backend
// contract is keyed by product, not by row.
func (c *Client) DeleteFromCart(ctx context.Context, userID, productID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	body := map[string]string{"userID": userID, "productID": productID}
	return c.do(ctx, http.MethodDelete, "deleteFromCart", nil, body, nil)
}

// CreateOrder submits a new order and returns its identifier.
func (c *Client) CreateOrder(ctx context.Context, input OrderInput) (string, error) {
	if err := validateOrderInput(input); err != nil {
		return "", err
	}
	var resp struct {
		Order *struct {
			ID string `json:"_id"`
		} `json:"order"`
		ID string `json:"_id"`
	}
	if err := c.do(ctx, http.MethodPost, "CreateOrders", nil, input, &resp); err != nil {
		return "", err
	}
	if resp.Order != nil && resp.Order.ID != "" {
		return resp.Order.ID, nil
	}
	if resp.ID != "" {
		return resp.ID, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeBackend, "order response missing order id")
}

// Orders fetches every order record. The backend has no server-side filter;
// callers narrow by email locally.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "getOrder", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateDesign submits a custom jersey design and returns its identifier.
func (c *Client) CreateDesign(ctx context.Context, input DesignInput) (string, error) {
	if err := validateDesignInput(input); err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"_id"`
	}
	if err := c.do(ctx, http.MethodPost, "createdesign", nil, input, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Logos fetches every stored design. Callers narrow by email locally.
func (c *Client) Logos(ctx context.Context) ([]Design, error) {
	var designs []Design
	if err := c.do(ctx, http.MethodGet, "logos", nil, nil, &designs); err != nil {
		return nil, err
	}
	return designs, nil
}

// ForgotPassword triggers an OTP email for the account.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	return c.do(ctx, http.MethodPost, "forgotPassword", nil, map[string]string{"email": email}, nil)
}

// VerifyOTP checks the one-time code sent to the account email.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(otp) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "otp is required")
	}
	body := map[string]string{"email": email, "otp": otp}
	return c.do(ctx, http.MethodPost, "verifyOTP", nil, body, nil)
}

// ResetPassword replaces the account password after OTP verification.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if newPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is required")
	}
	body := map[string]string{"email": email, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "resetPassword", nil, body, nil)
}

func validateOrderInput(input OrderInput) error {
	if strings.TrimSpace(input.UserID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.TotalAmount.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total amount must be positive")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if input.DeliveryOption != "" && !input.DeliveryOption.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery option")
	}
	return nil
}

func validateDesignInput(input DesignInput) error {
	required := map[string]string{
		"name":        input.Name,
		"email":       input.Email,
		"size":        input.Size,
		"description": input.Description,
		"color":       input.Color,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}
	if input.Price.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "call store backend")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeBackend, err, "decode backend response")
	}
	return nil
}

// backendError surfaces the server-provided message when the body carries one,
// otherwise falls back to the status code.
func backendError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return pkgerrors.New(pkgerrors.CodeBackend, payload.Message)
	}
	return pkgerrors.New(pkgerrors.CodeBackend, fmt.Sprintf("backend returned status %d", resp.StatusCode))
}
