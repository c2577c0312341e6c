package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ottware/storefront/internal/store"
	"github.com/ottware/storefront/pkg/logger"
)

// NewRouter wires the API routes. Every /api route runs behind the session
// middleware; the payment-return callback does not, since the gateway calls
// it without a session cookie.
func NewRouter(h *Handlers, sessions store.Store, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Get("/callbacks/payment-return", h.paymentReturn)

	r.Route("/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return withSession(sessions, log, next)
		})

		r.Post("/registration/form", h.registrationForm)
		r.Post("/registration", h.register)

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/offer", h.selectOffer)
			r.Post("/enter", h.enterCheckout)
			r.Post("/coupon", h.applyCoupon)
			r.Post("/payment-method", h.changePaymentMethod)
			r.Post("/pay/no-details", h.payWithoutDetails)
			r.Post("/pay/paypal", h.payWithPayPal)
			r.Post("/exit", h.exitCheckout)
		})

		r.Get("/account", h.accountPage)
		r.Post("/account/logout", h.logout)
	})

	return r
}
