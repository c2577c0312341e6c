package checkoutapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ottware/storefront/internal/config"
	"github.com/ottware/storefront/internal/domain/checkout"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// Client talks to the external checkout service that owns orders, coupons
// and payments.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

func NewClient(cfg config.ServiceConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// GetPaymentMethods returns the fixed catalog of payment methods.
func (c *Client) GetPaymentMethods(ctx context.Context) ([]checkout.PaymentMethod, error) {
	var out struct {
		PaymentMethods []checkout.PaymentMethod `json:"paymentMethods"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/payment-methods", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get payment methods: %w", err)
	}
	return out.PaymentMethods, nil
}

// CreateOrder creates a fresh order for the offer with the given payment
// method preselected.
func (c *Client) CreateOrder(ctx context.Context, offerID string, paymentMethodID int64) (*checkout.Order, error) {
	body := map[string]any{
		"offerId":         offerID,
		"paymentMethodId": paymentMethodID,
	}
	var out struct {
		Order checkout.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/orders", body, &out); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &out.Order, nil
}

// UpdateOrder re-submits the order with a new payment method or coupon code.
// The gateway rejects updates against orders it no longer holds; callers
// detect that case through the checkout error helpers.
func (c *Client) UpdateOrder(ctx context.Context, orderID int64, paymentMethodID int64, couponCode string) (*checkout.Order, error) {
	body := map[string]any{
		"paymentMethodId": paymentMethodID,
	}
	if couponCode != "" {
		body["couponCode"] = couponCode
	}
	var out struct {
		Order checkout.Order `json:"order"`
	}
	path := fmt.Sprintf("/v1/orders/%d", orderID)
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// PaymentWithoutDetails settles an order whose total requires no payment
// instrument (free or fully discounted).
func (c *Client) PaymentWithoutDetails(ctx context.Context, orderID int64) error {
	body := map[string]any{
		"orderId": orderID,
	}
	if err := c.do(ctx, http.MethodPost, "/v1/payments/without-details", body, nil); err != nil {
		return fmt.Errorf("failed to submit payment without details: %w", err)
	}
	return nil
}

// PaypalPayment starts a redirect-based PayPal payment for the order. The
// three URLs are where the gateway sends the customer back after approval,
// cancellation or failure.
func (c *Client) PaypalPayment(ctx context.Context, orderID int64, successURL, cancelURL, errorURL string, couponCode string) (*checkout.PayPalRedirect, error) {
	body := map[string]any{
		"orderId":    orderID,
		"successUrl": successURL,
		"cancelUrl":  cancelURL,
		"errorUrl":   errorURL,
	}
	if couponCode != "" {
		body["couponCode"] = couponCode
	}
	var out checkout.PayPalRedirect
	if err := c.do(ctx, http.MethodPost, "/v1/payments/paypal", body, &out); err != nil {
		return nil, fmt.Errorf("failed to start paypal payment: %w", err)
	}
	return &out, nil
}

// do performs one JSON round trip. On a non-2xx status the gateway message
// is surfaced verbatim so that phrase-based error detection keeps working.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp, method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response, method, path string) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("checkout service returned status %d", resp.StatusCode)
	}

	c.log.Warn("checkout service error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return errors.New(payload.Message)
	}
	return fmt.Errorf("checkout service returned status %d: %s", resp.StatusCode, string(raw))
}
