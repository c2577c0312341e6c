package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/ottware/storefront/internal/domain/checkout"
	"github.com/ottware/storefront/internal/navigation"
	accountsvc "github.com/ottware/storefront/internal/services/account"
	checkoutsvc "github.com/ottware/storefront/internal/services/checkout"
	"github.com/ottware/storefront/internal/services/registration"
	"github.com/ottware/storefront/internal/store"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handlers exposes the storefront API.
type Handlers struct {
	registration *registration.Service
	checkout     *checkoutsvc.Orchestrator
	account      *accountsvc.Service
	sessions     store.Store
	health       HealthChecker
	returnSecret string
	log          logger.Logger
}

func NewHandlers(
	registrationSvc *registration.Service,
	checkoutSvc *checkoutsvc.Orchestrator,
	accountSvc *accountsvc.Service,
	sessions store.Store,
	health HealthChecker,
	returnSecret string,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		registration: registrationSvc,
		checkout:     checkoutSvc,
		account:      accountSvc,
		sessions:     sessions,
		health:       health,
		returnSecret: returnSecret,
		log:          log,
	}
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.HealthCheck(r.Context()); err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// registrationForm returns a fresh form seeded with consent defaults.
func (h *Handlers) registrationForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.registration.NewForm(r.Context())
	if err != nil {
		h.serverError(w, "failed to build registration form", err)
		return
	}
	h.writeJSON(w, http.StatusOK, form)
}

// register submits a completed registration form. Validation failures come
// back as the form with errors set, not as an HTTP error.
func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var form registration.Form
	if !h.readJSON(w, r, &form) {
		return
	}
	if form.Errors == nil {
		form.Errors = map[string]string{}
	}

	customer, result, err := h.registration.Submit(r.Context(), &form)
	if err != nil {
		h.serverError(w, "registration failed", err)
		return
	}

	if customer != nil {
		session := sessionFromContext(r.Context())
		session.CustomerID = customer.ID
		if err := h.sessions.Save(r.Context(), session); err != nil {
			h.serverError(w, "failed to save session", err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"form":     result,
		"customer": customer,
	})
}

// selectOffer stores the offer the customer picked before opening checkout.
func (h *Handlers) selectOffer(w http.ResponseWriter, r *http.Request) {
	var offer checkout.Offer
	if !h.readJSON(w, r, &offer) {
		return
	}

	session := sessionFromContext(r.Context())
	session.Offer = &offer
	if err := h.sessions.Save(r.Context(), session); err != nil {
		h.serverError(w, "failed to save session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkoutRequest struct {
	Location        string `json:"location"`
	CouponCode      string `json:"couponCode"`
	PaymentMethodID int64  `json:"paymentMethodId"`
}

func (h *Handlers) enterCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	session := sessionFromContext(r.Context())

	view, err := h.checkout.Enter(r.Context(), session, h.location(r, req.Location))
	if err != nil {
		h.serverError(w, "failed to enter checkout", err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	session := sessionFromContext(r.Context())

	view, err := h.checkout.ApplyCoupon(r.Context(), session, h.location(r, req.Location), req.CouponCode)
	if err != nil {
		h.serverError(w, "failed to apply coupon", err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) changePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	session := sessionFromContext(r.Context())

	view, err := h.checkout.ChangePaymentMethod(r.Context(), session, h.location(r, req.Location), req.PaymentMethodID)
	if err != nil {
		h.serverError(w, "failed to change payment method", err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) payWithoutDetails(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	session := sessionFromContext(r.Context())

	view, err := h.checkout.SubmitWithoutPayment(r.Context(), session, h.location(r, req.Location))
	if err != nil {
		h.serverError(w, "failed to submit payment", err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) payWithPayPal(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	session := sessionFromContext(r.Context())

	view, err := h.checkout.SubmitPayPal(r.Context(), session, h.location(r, req.Location))
	if err != nil {
		h.serverError(w, "failed to start paypal payment", err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) exitCheckout(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if err := h.checkout.Exit(r.Context(), session); err != nil {
		h.serverError(w, "failed to exit checkout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// accountPage serves the account shell. Unauthenticated visitors are sent
// to the login view instead of receiving an error page.
func (h *Handlers) accountPage(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session.CustomerID == "" {
		loc := h.location(r, "")
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{
			"redirect": navigation.Redirect{
				Location: navigation.AddQueryParam(loc, navigation.ParamView, navigation.ViewLogin),
			},
		})
		return
	}

	view, err := h.account.Page(r.Context(), session.CustomerID, r.URL.Query().Get("page"))
	if err != nil {
		h.serverError(w, "failed to build account page", err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session.CustomerID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.account.Logout(r.Context(), session.CustomerID); err != nil {
		h.serverError(w, "logout failed", err)
		return
	}

	session.CustomerID = ""
	if err := h.sessions.Delete(r.Context(), session.ID); err != nil {
		h.serverError(w, "failed to delete session", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// paymentReturn handles the gateway's redirect back after an external
// payment flow. The signature covers every query parameter except the
// signature itself.
func (h *Handlers) paymentReturn(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	if !verifyPaymentReturn(values, h.returnSecret) {
		h.log.Warn("payment return with invalid signature",
			zap.String("order_id", values.Get("order_id")),
		)
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	status := values.Get("status")
	target := "/?" + navigation.ParamView + "=" + navigation.ViewWelcome
	if status != "success" {
		h.log.Warn("payment return reported failure",
			zap.String("order_id", values.Get("order_id")),
			zap.String("status", status),
		)
		target = "/?" + navigation.ParamView + "=" + navigation.ViewPaymentError
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// location resolves the page location a checkout action happened on. The
// client sends it explicitly; the Referer header is the fallback.
func (h *Handlers) location(r *http.Request, explicit string) *url.URL {
	raw := explicit
	if raw == "" {
		raw = r.Referer()
	}
	loc, err := url.Parse(raw)
	if err != nil || raw == "" {
		return &url.URL{Path: "/"}
	}
	return loc
}

func (h *Handlers) readJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if r.Body == nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "empty body"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return false
	}
	return true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) serverError(w http.ResponseWriter, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": msg})
}
