// Package checkout orchestrates the purchase flow: it resolves the selected
// offer into an order, reacts to coupon and payment-method changes, and
// drives the payment submission paths. All order mutations go through the
// external checkout service; this package owns only the per-session view
// state around them.
package checkout

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ottware/storefront/internal/domain/account"
	"github.com/ottware/storefront/internal/domain/checkout"
	"github.com/ottware/storefront/internal/navigation"
	"github.com/ottware/storefront/internal/store"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// ErrCouponNotValid is the localization key shown next to the coupon field
// when the gateway rejects a code for any reason other than a stale order.
const ErrCouponNotValid = "checkout.coupon_not_valid"

// Payment view names. The client renders the matching widget.
const (
	PaymentViewNoDetails  = "no-details"
	PaymentViewCardStripe = "card-stripe"
	PaymentViewCardAdyen  = "card-adyen"
	PaymentViewPayPal     = "paypal"
)

// CheckoutClient is the slice of the checkout service the orchestrator
// needs.
type CheckoutClient interface {
	GetPaymentMethods(ctx context.Context) ([]checkout.PaymentMethod, error)
	CreateOrder(ctx context.Context, offerID string, paymentMethodID int64) (*checkout.Order, error)
	UpdateOrder(ctx context.Context, orderID int64, paymentMethodID int64, couponCode string) (*checkout.Order, error)
	PaymentWithoutDetails(ctx context.Context, orderID int64) error
	PaypalPayment(ctx context.Context, orderID int64, successURL, cancelURL, errorURL string, couponCode string) (*checkout.PayPalRedirect, error)
}

// AccountClient re-fetches the subscription after a completed purchase.
type AccountClient interface {
	ReloadActiveSubscription(ctx context.Context, customerID string, delay time.Duration) (*account.Subscription, error)
}

// Notifier reports payment events to the operations channel.
type Notifier interface {
	PaymentCompleted(ctx context.Context, order checkout.Order, offer checkout.Offer)
	PaymentFailed(ctx context.Context, orderID int64, reason string)
}

// noopNotifier stands in when no notifier is configured, so callers never
// have to guard notification calls.
type noopNotifier struct{}

func (noopNotifier) PaymentCompleted(ctx context.Context, order checkout.Order, offer checkout.Offer) {
}

func (noopNotifier) PaymentFailed(ctx context.Context, orderID int64, reason string) {}

// View is the checkout state returned to the client after every operation.
type View struct {
	Offer           *checkout.Offer          `json:"offer,omitempty"`
	Order           *checkout.Order          `json:"order,omitempty"`
	PaymentMethods  []checkout.PaymentMethod `json:"paymentMethods,omitempty"`
	PaymentMethodID int64                    `json:"paymentMethodId,omitempty"`
	PaymentView     string                   `json:"paymentView,omitempty"`

	CouponApplied bool   `json:"couponApplied,omitempty"`
	CouponError   string `json:"couponError,omitempty"`
	PaymentError  string `json:"paymentError,omitempty"`
	UpdatingOrder bool   `json:"updatingOrder"`

	Redirect *navigation.Redirect `json:"redirect,omitempty"`
}

// Orchestrator drives one customer's checkout session.
type Orchestrator struct {
	sessions    store.Store
	checkoutAPI CheckoutClient
	accountAPI  AccountClient
	notifier    Notifier
	reloadDelay time.Duration
	log         logger.Logger
}

func NewOrchestrator(
	sessions store.Store,
	checkoutAPI CheckoutClient,
	accountAPI AccountClient,
	notifier Notifier,
	reloadDelay time.Duration,
	log logger.Logger,
) *Orchestrator {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Orchestrator{
		sessions:    sessions,
		checkoutAPI: checkoutAPI,
		accountAPI:  accountAPI,
		notifier:    notifier,
		reloadDelay: reloadDelay,
		log:         log,
	}
}

// Enter opens checkout for the session's selected offer. Without an offer it
// redirects straight to offer selection and touches nothing else. Otherwise
// it loads the payment-method catalog, preselects the first method and
// creates the order.
func (o *Orchestrator) Enter(ctx context.Context, session *store.Session, loc *url.URL) (*View, error) {
	if session.Offer == nil {
		return &View{
			Redirect: &navigation.Redirect{
				Location: navigation.AddQueryParam(loc, navigation.ParamView, navigation.ViewChooseOffer),
				Replace:  true,
			},
		}, nil
	}

	methods, err := o.checkoutAPI.GetPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment methods: %w", err)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("checkout service returned no payment methods")
	}

	session.PaymentMethods = methods
	session.PaymentMethodID = methods[0].ID

	order, err := o.checkoutAPI.CreateOrder(ctx, session.Offer.OfferID, session.PaymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	session.Order = order

	if err := o.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	o.log.Info("checkout entered",
		zap.String("offer_id", session.Offer.OfferID),
		zap.Int64("order_id", order.ID),
	)
	return o.view(session, nil), nil
}

// ApplyCoupon re-submits the order with the coupon code. A stale order at
// the gateway redirects back to offer selection with history replacement;
// any other rejection surfaces as a coupon field error and leaves the order
// untouched. An empty code never reaches the gateway.
func (o *Orchestrator) ApplyCoupon(ctx context.Context, session *store.Session, loc *url.URL, couponCode string) (*View, error) {
	if session.Order == nil {
		return o.view(session, nil), nil
	}
	if session.UpdatingOrder {
		return o.view(session, nil), nil
	}

	if err := o.beginUpdate(ctx, session); err != nil {
		return nil, err
	}
	session.CouponApplied = false

	if couponCode == "" {
		if err := o.endUpdate(ctx, session); err != nil {
			return nil, err
		}
		return o.view(session, nil), nil
	}

	order, err := o.checkoutAPI.UpdateOrder(ctx, session.Order.ID, session.PaymentMethodID, couponCode)

	if err != nil {
		if checkout.IsOrderNotFound(err, session.Order.ID) {
			redirect := &navigation.Redirect{
				Location: navigation.AddQueryParam(loc, navigation.ParamView, navigation.ViewChooseOffer),
				Replace:  true,
			}
			if endErr := o.endUpdate(ctx, session); endErr != nil {
				return nil, endErr
			}
			return o.view(session, redirect), nil
		}

		o.log.Warn("coupon rejected",
			zap.Int64("order_id", session.Order.ID),
			zap.Error(err),
		)
		session.CouponError = ErrCouponNotValid
		if endErr := o.endUpdate(ctx, session); endErr != nil {
			return nil, endErr
		}
		return o.view(session, nil), nil
	}

	session.Order = order
	session.CouponCode = couponCode
	session.CouponApplied = true
	session.CouponError = ""
	if err := o.endUpdate(ctx, session); err != nil {
		return nil, err
	}
	return o.view(session, nil), nil
}

// ChangePaymentMethod re-submits the order with the new method id and any
// coupon already entered. The coupon-applied indicator resets until the
// customer re-applies the code. Stale orders redirect to offer selection;
// the phrase matched here differs from the coupon path, see the checkout
// error helpers.
func (o *Orchestrator) ChangePaymentMethod(ctx context.Context, session *store.Session, loc *url.URL, methodID int64) (*View, error) {
	if session.Order == nil {
		return o.view(session, nil), nil
	}
	if session.UpdatingOrder {
		return o.view(session, nil), nil
	}

	if err := o.beginUpdate(ctx, session); err != nil {
		return nil, err
	}
	session.CouponApplied = false

	order, err := o.checkoutAPI.UpdateOrder(ctx, session.Order.ID, methodID, session.CouponCode)

	if err != nil {
		if checkout.IsOrderNotFoundOnMethodChange(err, session.Order.ID) {
			redirect := &navigation.Redirect{
				Location: navigation.AddQueryParam(loc, navigation.ParamView, navigation.ViewChooseOffer),
			}
			if endErr := o.endUpdate(ctx, session); endErr != nil {
				return nil, endErr
			}
			return o.view(session, redirect), nil
		}

		o.log.Warn("payment method change rejected",
			zap.Int64("order_id", session.Order.ID),
			zap.Int64("payment_method_id", methodID),
			zap.Error(err),
		)
		session.PaymentError = err.Error()
		if endErr := o.endUpdate(ctx, session); endErr != nil {
			return nil, endErr
		}
		return o.view(session, nil), nil
	}

	session.Order = order
	session.PaymentMethodID = methodID
	session.PaymentError = ""
	if err := o.endUpdate(ctx, session); err != nil {
		return nil, err
	}
	return o.view(session, nil), nil
}

// SubmitWithoutPayment settles an order that requires no payment details,
// waits out the billing backend's settlement lag by reloading the
// subscription, then redirects to the success destination for the offer
// type.
func (o *Orchestrator) SubmitWithoutPayment(ctx context.Context, session *store.Session, loc *url.URL) (*View, error) {
	if session.Order == nil || session.Offer == nil {
		return o.view(session, nil), nil
	}
	if session.UpdatingOrder {
		return o.view(session, nil), nil
	}

	if err := o.beginUpdate(ctx, session); err != nil {
		return nil, err
	}

	if err := o.checkoutAPI.PaymentWithoutDetails(ctx, session.Order.ID); err != nil {
		o.log.Warn("payment without details failed",
			zap.Int64("order_id", session.Order.ID),
			zap.Error(err),
		)
		o.notifier.PaymentFailed(ctx, session.Order.ID, err.Error())
		session.PaymentError = err.Error()
		if endErr := o.endUpdate(ctx, session); endErr != nil {
			return nil, endErr
		}
		return o.view(session, nil), nil
	}

	if _, err := o.accountAPI.ReloadActiveSubscription(ctx, session.CustomerID, o.reloadDelay); err != nil {
		o.log.Warn("subscription reload failed after payment", zap.Error(err))
	}

	o.notifier.PaymentCompleted(ctx, *session.Order, *session.Offer)

	redirect := o.successRedirect(session.Offer, loc)
	session.PaymentError = ""
	if err := o.endUpdate(ctx, session); err != nil {
		return nil, err
	}
	return o.view(session, redirect), nil
}

// SubmitPayPal starts the redirect-based PayPal flow. The return URLs are
// derived from the current page location with the view parameter appended.
func (o *Orchestrator) SubmitPayPal(ctx context.Context, session *store.Session, loc *url.URL) (*View, error) {
	if session.Order == nil || session.Offer == nil {
		return o.view(session, nil), nil
	}
	if session.UpdatingOrder {
		return o.view(session, nil), nil
	}

	if err := o.beginUpdate(ctx, session); err != nil {
		return nil, err
	}

	href := loc.String()
	successURL := o.paypalSuccessURL(session.Offer, loc)
	cancelURL := navigation.AddQueryParams(href, map[string]string{
		navigation.ParamView: navigation.ViewPaymentCancelled,
	})
	errorURL := navigation.AddQueryParams(href, map[string]string{
		navigation.ParamView: navigation.ViewPaymentError,
	})

	result, err := o.checkoutAPI.PaypalPayment(ctx, session.Order.ID, successURL, cancelURL, errorURL, session.CouponCode)

	if err != nil {
		o.log.Warn("paypal payment failed",
			zap.Int64("order_id", session.Order.ID),
			zap.Error(err),
		)
		o.notifier.PaymentFailed(ctx, session.Order.ID, err.Error())
		session.PaymentError = err.Error()
		if endErr := o.endUpdate(ctx, session); endErr != nil {
			return nil, endErr
		}
		return o.view(session, nil), nil
	}

	session.PaymentError = ""
	if err := o.endUpdate(ctx, session); err != nil {
		return nil, err
	}
	return o.view(session, &navigation.Redirect{Location: result.RedirectURL}), nil
}

// Exit tears the checkout view down. The order is cleared unconditionally,
// whether or not checkout completed, so re-entering never resumes a stale
// order.
func (o *Orchestrator) Exit(ctx context.Context, session *store.Session) error {
	session.Order = nil
	session.CouponCode = ""
	session.CouponApplied = false
	session.CouponError = ""
	session.PaymentError = ""
	session.UpdatingOrder = false

	if err := o.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// selectPaymentView picks the widget for the current order and method. An
// order that needs no payment details always takes the zero-payment path.
func selectPaymentView(session *store.Session) string {
	if session.Order == nil {
		return ""
	}
	if !session.Order.RequiredPaymentDetails {
		return PaymentViewNoDetails
	}

	for _, m := range session.PaymentMethods {
		if m.ID != session.PaymentMethodID {
			continue
		}
		switch m.MethodName {
		case checkout.MethodPayPal:
			return PaymentViewPayPal
		case checkout.MethodCard:
			if m.Provider == checkout.ProviderStripe {
				return PaymentViewCardStripe
			}
			return PaymentViewCardAdyen
		}
	}
	return ""
}

// successRedirect is where the customer lands after a completed purchase:
// subscription offers open the welcome screen, one-time offers return to the
// page that opened checkout by dropping the view parameter.
func (o *Orchestrator) successRedirect(offer *checkout.Offer, loc *url.URL) *navigation.Redirect {
	if offer.Type() == checkout.OfferTypeTVOD {
		return &navigation.Redirect{
			Location: navigation.RemoveQueryParam(loc, navigation.ParamView),
			Replace:  true,
		}
	}
	return &navigation.Redirect{
		Location: navigation.AddQueryParam(loc, navigation.ParamView, navigation.ViewWelcome),
		Replace:  true,
	}
}

// paypalSuccessURL mirrors successRedirect for the external flow: welcome
// view for subscription offers, the opening page with the view parameter
// dropped for one-time offers.
func (o *Orchestrator) paypalSuccessURL(offer *checkout.Offer, loc *url.URL) string {
	if offer.Type() == checkout.OfferTypeTVOD {
		return navigation.RemoveQueryParams(loc.String(), navigation.ParamView)
	}
	return navigation.AddQueryParams(loc.String(), map[string]string{
		navigation.ParamView: navigation.ViewWelcome,
	})
}

// beginUpdate flips the updating flag and persists it before the gateway
// call starts, so a duplicate submission from the same control sees the
// flag already set.
func (o *Orchestrator) beginUpdate(ctx context.Context, session *store.Session) error {
	session.UpdatingOrder = true
	if err := o.sessions.Save(ctx, session); err != nil {
		session.UpdatingOrder = false
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// endUpdate clears the updating flag on every outcome. The flag is never
// left set.
func (o *Orchestrator) endUpdate(ctx context.Context, session *store.Session) error {
	session.UpdatingOrder = false
	if err := o.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (o *Orchestrator) view(session *store.Session, redirect *navigation.Redirect) *View {
	return &View{
		Offer:           session.Offer,
		Order:           session.Order,
		PaymentMethods:  session.PaymentMethods,
		PaymentMethodID: session.PaymentMethodID,
		PaymentView:     selectPaymentView(session),
		CouponApplied:   session.CouponApplied,
		CouponError:     session.CouponError,
		PaymentError:    session.PaymentError,
		UpdatingOrder:   session.UpdatingOrder,
		Redirect:        redirect,
	}
}
