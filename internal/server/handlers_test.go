package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ottware/storefront/internal/store"
	"github.com/ottware/storefront/pkg/logger"
)

type fakeHealthChecker struct {
	err error
}

func (f *fakeHealthChecker) HealthCheck(ctx context.Context) error {
	return f.err
}

func newTestHandlers(secret string) *Handlers {
	return NewHandlers(nil, nil, nil, store.NewMemoryStore(), nil, secret, logger.Noop())
}

func TestHealthz_ReportsOKWhenStoreReachable(t *testing.T) {
	h := newTestHandlers("")
	h.health = &fakeHealthChecker{}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthz_ReportsUnavailableWhenStoreDown(t *testing.T) {
	h := newTestHandlers("")
	h.health = &fakeHealthChecker{err: errors.New("connection refused")}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.healthz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestPaymentReturn_SuccessRedirectsToWelcome(t *testing.T) {
	h := newTestHandlers("secret")

	values := url.Values{}
	values.Set("order_id", "123")
	values.Set("status", "success")
	values.Set("sign", signPaymentReturn(values, "secret"))

	req := httptest.NewRequest(http.MethodGet, "/callbacks/payment-return?"+values.Encode(), nil)
	rec := httptest.NewRecorder()

	h.paymentReturn(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "u=welcome") {
		t.Errorf("expected welcome redirect, got %s", loc)
	}
}

func TestPaymentReturn_FailureRedirectsToPaymentError(t *testing.T) {
	h := newTestHandlers("secret")

	values := url.Values{}
	values.Set("order_id", "123")
	values.Set("status", "failed")
	values.Set("sign", signPaymentReturn(values, "secret"))

	req := httptest.NewRequest(http.MethodGet, "/callbacks/payment-return?"+values.Encode(), nil)
	rec := httptest.NewRecorder()

	h.paymentReturn(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "u=payment-error") {
		t.Errorf("expected payment-error redirect, got %s", loc)
	}
}

func TestPaymentReturn_InvalidSignatureRejected(t *testing.T) {
	h := newTestHandlers("secret")

	values := url.Values{}
	values.Set("order_id", "123")
	values.Set("status", "success")
	values.Set("sign", "bogus")

	req := httptest.NewRequest(http.MethodGet, "/callbacks/payment-return?"+values.Encode(), nil)
	rec := httptest.NewRecorder()

	h.paymentReturn(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWithSession_SetsCookieForNewVisitor(t *testing.T) {
	sessions := store.NewMemoryStore()
	var got *store.Session

	handler := withSession(sessions, logger.Noop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = sessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected session on context")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookie {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	if cookies[0].Value != got.ID.String() {
		t.Error("cookie must carry the session id")
	}
}

func TestWithSession_ReusesExistingSession(t *testing.T) {
	sessions := store.NewMemoryStore()
	existing := store.NewSession()
	existing.CustomerID = "cust-1"
	if err := sessions.Save(httptest.NewRequest(http.MethodGet, "/", nil).Context(), existing); err != nil {
		t.Fatal(err)
	}

	var got *store.Session
	handler := withSession(sessions, logger.Noop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = sessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: existing.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil || got.CustomerID != "cust-1" {
		t.Fatalf("expected existing session reused, got %+v", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no new cookie expected for an existing session")
	}
}
