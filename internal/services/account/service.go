// Package account composes the customer account pages. Sub-pages are
// selected by a navigation parameter; all data comes straight from the
// account service.
package account

import (
	"context"
	"fmt"
	"time"

	domain "github.com/ottware/storefront/internal/domain/account"
	"github.com/ottware/storefront/internal/services/consent"
	"github.com/ottware/storefront/pkg/collection"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// Sub-page names recognized by the shell. Anything else falls back to the
// profile page.
const (
	PageMyAccount = "my-account"
	PagePayments  = "payments"
	PageFavorites = "favorites"
)

// Client is the slice of the account service the page shell needs.
type Client interface {
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	GetActiveSubscription(ctx context.Context, customerID string) (*domain.Subscription, error)
	ReloadActiveSubscription(ctx context.Context, customerID string, delay time.Duration) (*domain.Subscription, error)
	GetTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error)
	GetActivePaymentDetail(ctx context.Context, customerID string) (*domain.PaymentDetail, error)
	GetFeatures(ctx context.Context) (*domain.Features, error)
	GetPublisherConsents(ctx context.Context) ([]domain.Consent, error)
	GetCustomerConsents(ctx context.Context, customerID string) ([]domain.CustomerConsent, error)
	Logout(ctx context.Context, customerID string) error
}

// PageView is the assembled account page returned to the client. Only the
// sections the selected sub-page renders are populated.
type PageView struct {
	Page     string          `json:"page"`
	Customer *domain.Customer `json:"customer"`
	Features *domain.Features `json:"features"`

	Subscription *domain.Subscription `json:"subscription,omitempty"`
	Consents     map[string]bool      `json:"consents,omitempty"`

	// TransactionPages is the payment history split into render pages.
	TransactionPages [][]domain.Transaction `json:"transactionPages,omitempty"`
	ActivePayment    *domain.PaymentDetail  `json:"activePayment,omitempty"`
}

// transactionsPerPage matches the page size of the payments history table.
const transactionsPerPage = 10

// Service builds account pages and handles account-level actions.
type Service struct {
	client Client
	log    logger.Logger
}

func NewService(client Client, log logger.Logger) *Service {
	return &Service{client: client, log: log}
}

// ResolvePage maps the navigation parameter to a known sub-page.
func ResolvePage(param string) string {
	switch param {
	case PagePayments, PageFavorites:
		return param
	default:
		return PageMyAccount
	}
}

// Page assembles the view for the sub-page named by the navigation
// parameter.
func (s *Service) Page(ctx context.Context, customerID, param string) (*PageView, error) {
	customer, err := s.client.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	features, err := s.client.GetFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load features: %w", err)
	}

	view := &PageView{
		Page:     ResolvePage(param),
		Customer: customer,
		Features: features,
	}

	switch view.Page {
	case PageMyAccount:
		if err := s.fillProfile(ctx, customerID, view); err != nil {
			return nil, err
		}
	case PagePayments:
		if err := s.fillPayments(ctx, customerID, view); err != nil {
			return nil, err
		}
	}
	// The favorites page renders from client-side watch history only.

	return view, nil
}

func (s *Service) fillProfile(ctx context.Context, customerID string, view *PageView) error {
	subscription, err := s.client.GetActiveSubscription(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	view.Subscription = subscription

	publisherConsents, err := s.client.GetPublisherConsents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load consents: %w", err)
	}
	customerConsents, err := s.client.GetCustomerConsents(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load customer consents: %w", err)
	}
	view.Consents = consent.Format(publisherConsents, customerConsents)
	return nil
}

func (s *Service) fillPayments(ctx context.Context, customerID string, view *PageView) error {
	transactions, err := s.client.GetTransactions(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	view.TransactionPages = collection.Chunk(transactions, transactionsPerPage)

	activePayment, err := s.client.GetActivePaymentDetail(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load payment details: %w", err)
	}
	view.ActivePayment = activePayment
	return nil
}

// Logout ends the customer's session with the account service.
func (s *Service) Logout(ctx context.Context, customerID string) error {
	if err := s.client.Logout(ctx, customerID); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.log.Info("customer logged out", zap.String("customer_id", customerID))
	return nil
}
