package accountapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ottware/storefront/internal/config"
	"github.com/ottware/storefront/internal/domain/account"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// Client talks to the external account service that owns customers,
// consents and subscriptions.
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

// GetPublisherConsents returns the consent definitions the publisher
// configured for registration.
func (c *Client) GetPublisherConsents(ctx context.Context) ([]account.Consent, error) {
	var out struct {
		Consents []account.Consent `json:"consents"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/publisher/consents", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get publisher consents: %w", err)
	}
	return out.Consents, nil
}

// Register creates a new customer account.
func (c *Client) Register(ctx context.Context, req account.RegistrationRequest) (*account.Customer, error) {
	var out struct {
		Customer account.Customer `json:"customer"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/customers", req, &out); err != nil {
		return nil, err
	}
	return &out.Customer, nil
}

// GetCustomer returns the customer record for the given id.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*account.Customer, error) {
	var out struct {
		Customer account.Customer `json:"customer"`
	}
	path := fmt.Sprintf("/v1/customers/%s", customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &out.Customer, nil
}

// GetActiveSubscription returns the customer's active subscription, or nil
// when there is none.
func (c *Client) GetActiveSubscription(ctx context.Context, customerID string) (*account.Subscription, error) {
	var out struct {
		Subscription *account.Subscription `json:"subscription"`
	}
	path := fmt.Sprintf("/v1/customers/%s/subscription", customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return out.Subscription, nil
}

// ReloadActiveSubscription re-fetches the subscription after waiting out the
// billing backend's settlement lag. The delay comes from configuration so
// tests can shrink it.
func (c *Client) ReloadActiveSubscription(ctx context.Context, customerID string, delay time.Duration) (*account.Subscription, error) {
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return c.GetActiveSubscription(ctx, customerID)
}

// GetTransactions returns the customer's payment history.
func (c *Client) GetTransactions(ctx context.Context, customerID string) ([]account.Transaction, error) {
	var out struct {
		Transactions []account.Transaction `json:"transactions"`
	}
	path := fmt.Sprintf("/v1/customers/%s/transactions", customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return out.Transactions, nil
}

// GetActivePaymentDetail returns the stored payment instrument marked
// active, or nil when none is.
func (c *Client) GetActivePaymentDetail(ctx context.Context, customerID string) (*account.PaymentDetail, error) {
	var out struct {
		PaymentDetails []account.PaymentDetail `json:"paymentDetails"`
	}
	path := fmt.Sprintf("/v1/customers/%s/payment-details", customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get payment details: %w", err)
	}
	for i := range out.PaymentDetails {
		if out.PaymentDetails[i].Active {
			return &out.PaymentDetails[i], nil
		}
	}
	return nil, nil
}

// GetFeatures returns the feature toggles for the account surface.
func (c *Client) GetFeatures(ctx context.Context) (*account.Features, error) {
	var out account.Features
	if err := c.do(ctx, http.MethodGet, "/v1/features", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get features: %w", err)
	}
	return &out, nil
}

// GetCustomerConsents returns the consent answers stored for the customer.
func (c *Client) GetCustomerConsents(ctx context.Context, customerID string) ([]account.CustomerConsent, error) {
	var out struct {
		Consents []account.CustomerConsent `json:"consents"`
	}
	path := fmt.Sprintf("/v1/customers/%s/consents", customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get customer consents: %w", err)
	}
	return out.Consents, nil
}

// UpdateCustomerConsents stores new consent answers for the customer.
func (c *Client) UpdateCustomerConsents(ctx context.Context, customerID string, consents []account.CustomerConsent) error {
	body := map[string]any{
		"consents": consents,
	}
	path := fmt.Sprintf("/v1/customers/%s/consents", customerID)
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to update customer consents: %w", err)
	}
	return nil
}

// Logout invalidates the customer's session with the account service.
func (c *Client) Logout(ctx context.Context, customerID string) error {
	path := fmt.Sprintf("/v1/customers/%s/logout", customerID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

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
		return fmt.Errorf("account service returned status %d", resp.StatusCode)
	}

	c.log.Warn("account service error",
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
	return fmt.Errorf("account service returned status %d: %s", resp.StatusCode, string(raw))
}
