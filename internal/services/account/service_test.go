package account

import (
	"context"
	"testing"
	"time"

	domain "github.com/ottware/storefront/internal/domain/account"
	"github.com/ottware/storefront/pkg/logger"
)

type fakeClient struct {
	customer      *domain.Customer
	subscription  *domain.Subscription
	transactions  []domain.Transaction
	activePayment *domain.PaymentDetail
	features      *domain.Features

	publisherConsents []domain.Consent
	customerConsents  []domain.CustomerConsent

	subscriptionCalls int
	transactionCalls  int
	logoutCalls       int
}

func (f *fakeClient) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	return f.customer, nil
}

func (f *fakeClient) GetActiveSubscription(ctx context.Context, customerID string) (*domain.Subscription, error) {
	f.subscriptionCalls++
	return f.subscription, nil
}

func (f *fakeClient) ReloadActiveSubscription(ctx context.Context, customerID string, delay time.Duration) (*domain.Subscription, error) {
	return f.subscription, nil
}

func (f *fakeClient) GetTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	f.transactionCalls++
	return f.transactions, nil
}

func (f *fakeClient) GetActivePaymentDetail(ctx context.Context, customerID string) (*domain.PaymentDetail, error) {
	return f.activePayment, nil
}

func (f *fakeClient) GetFeatures(ctx context.Context) (*domain.Features, error) {
	return f.features, nil
}

func (f *fakeClient) GetPublisherConsents(ctx context.Context) ([]domain.Consent, error) {
	return f.publisherConsents, nil
}

func (f *fakeClient) GetCustomerConsents(ctx context.Context, customerID string) ([]domain.CustomerConsent, error) {
	return f.customerConsents, nil
}

func (f *fakeClient) Logout(ctx context.Context, customerID string) error {
	f.logoutCalls++
	return nil
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		customer: &domain.Customer{ID: "cust-1", Email: "user@example.com", Country: "us"},
		subscription: &domain.Subscription{
			SubscriptionID: 500,
			OfferID:        "S12345",
			Status:         "active",
		},
		transactions: []domain.Transaction{
			{TransactionID: "T1", OfferTitle: "Monthly", TransactionCurrency: "EUR"},
		},
		activePayment: &domain.PaymentDetail{ID: 7, Active: true, CardLast4: "4242"},
		features:      &domain.Features{CanUpdateEmail: true},
		publisherConsents: []domain.Consent{
			{Name: "marketing", Type: domain.ConsentTypeCheckbox},
		},
		customerConsents: []domain.CustomerConsent{
			{Name: "marketing", State: domain.ConsentAccepted, Value: true},
		},
	}
}

func TestResolvePage(t *testing.T) {
	cases := []struct {
		param string
		want  string
	}{
		{"my-account", PageMyAccount},
		{"payments", PagePayments},
		{"favorites", PageFavorites},
		{"", PageMyAccount},
		{"unknown", PageMyAccount},
	}
	for _, c := range cases {
		if got := ResolvePage(c.param); got != c.want {
			t.Errorf("ResolvePage(%q) = %q, want %q", c.param, got, c.want)
		}
	}
}

func TestPage_MyAccountLoadsSubscriptionAndConsents(t *testing.T) {
	client := newFakeClient()
	svc := NewService(client, logger.Noop())

	view, err := svc.Page(context.Background(), "cust-1", "my-account")
	if err != nil {
		t.Fatalf("Page() returned unexpected error: %v", err)
	}

	if view.Page != PageMyAccount {
		t.Errorf("expected my-account page, got %s", view.Page)
	}
	if view.Subscription == nil || view.Subscription.SubscriptionID != 500 {
		t.Errorf("expected subscription 500, got %+v", view.Subscription)
	}
	if !view.Consents["marketing"] {
		t.Error("accepted consent must map to true")
	}
	if view.TransactionPages != nil {
		t.Error("profile page must not load transactions")
	}
}

func TestPage_PaymentsLoadsTransactions(t *testing.T) {
	client := newFakeClient()
	svc := NewService(client, logger.Noop())

	view, err := svc.Page(context.Background(), "cust-1", "payments")
	if err != nil {
		t.Fatalf("Page() returned unexpected error: %v", err)
	}

	if view.Page != PagePayments {
		t.Errorf("expected payments page, got %s", view.Page)
	}
	if len(view.TransactionPages) != 1 || len(view.TransactionPages[0]) != 1 {
		t.Fatalf("expected one page with one transaction, got %+v", view.TransactionPages)
	}
	if view.ActivePayment == nil || view.ActivePayment.CardLast4 != "4242" {
		t.Errorf("expected active card, got %+v", view.ActivePayment)
	}
	if client.subscriptionCalls != 0 {
		t.Error("payments page must not load the subscription")
	}
}

func TestPage_FavoritesLoadsNoSections(t *testing.T) {
	client := newFakeClient()
	svc := NewService(client, logger.Noop())

	view, err := svc.Page(context.Background(), "cust-1", "favorites")
	if err != nil {
		t.Fatalf("Page() returned unexpected error: %v", err)
	}

	if view.Page != PageFavorites {
		t.Errorf("expected favorites page, got %s", view.Page)
	}
	if client.subscriptionCalls != 0 || client.transactionCalls != 0 {
		t.Error("favorites page must not load profile or payment sections")
	}
	if view.Customer == nil || view.Features == nil {
		t.Error("customer and features load on every page")
	}
}

func TestLogout(t *testing.T) {
	client := newFakeClient()
	svc := NewService(client, logger.Noop())

	if err := svc.Logout(context.Background(), "cust-1"); err != nil {
		t.Fatalf("Logout() returned unexpected error: %v", err)
	}
	if client.logoutCalls != 1 {
		t.Errorf("expected one logout call, got %d", client.logoutCalls)
	}
}
