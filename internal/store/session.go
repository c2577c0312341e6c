package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ottware/storefront/internal/domain/checkout"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Session is the per-visitor checkout state. It lives from the moment a
// customer opens checkout until the flow ends, and is keyed by a cookie.
type Session struct {
	ID         uuid.UUID `json:"id"`
	CustomerID string    `json:"customerId,omitempty"`

	// Offer is the offer the customer entered checkout with. Nil means
	// checkout was opened without a selection.
	Offer *checkout.Offer `json:"offer,omitempty"`

	// Order is the pending order at the gateway. Cleared unconditionally
	// when the customer leaves checkout.
	Order *checkout.Order `json:"order,omitempty"`

	PaymentMethods  []checkout.PaymentMethod `json:"paymentMethods,omitempty"`
	PaymentMethodID int64                    `json:"paymentMethodId,omitempty"`

	CouponCode    string `json:"couponCode,omitempty"`
	CouponApplied bool   `json:"couponApplied,omitempty"`

	// UpdatingOrder blocks concurrent order mutations while a re-submission
	// is in flight.
	UpdatingOrder bool `json:"updatingOrder,omitempty"`

	PaymentError string `json:"paymentError,omitempty"`
	CouponError  string `json:"couponError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates an empty session with a fresh id.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns an independent copy. Callers mutate clones and persist them
// through Save, so stored state never aliases live state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Offer != nil {
		offer := *s.Offer
		out.Offer = &offer
	}
	if s.Order != nil {
		order := *s.Order
		out.Order = &order
	}
	if s.PaymentMethods != nil {
		out.PaymentMethods = make([]checkout.PaymentMethod, len(s.PaymentMethods))
		copy(out.PaymentMethods, s.PaymentMethods)
	}
	return &out
}

// Store persists checkout sessions.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}
