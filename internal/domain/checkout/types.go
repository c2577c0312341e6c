package checkout

// Offer types. Subscription offers (svod) redirect to the welcome screen
// after purchase, one-time offers (tvod) return to the page that opened
// checkout.
const (
	OfferTypeSVOD = "svod"
	OfferTypeTVOD = "tvod"
)

// Payment method names returned by the checkout service.
const (
	MethodCard   = "card"
	MethodPayPal = "paypal"
)

// Card providers. The provider selects which card widget the client renders.
const (
	ProviderStripe = "stripe"
	ProviderAdyen  = "adyen"
)

// Offer identifies a purchasable subscription tier or one-time entitlement.
// Immutable once selected.
type Offer struct {
	OfferID     string  `json:"offerId"`
	OfferTitle  string  `json:"offerTitle"`
	OfferTag    string  `json:"offerTag"`
	Period      string  `json:"period,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
}

// Type returns the offer type used for post-purchase navigation. Anything
// that is not explicitly tagged tvod is treated as svod.
func (o Offer) Type() string {
	if o.OfferTag == OfferTypeTVOD {
		return OfferTypeTVOD
	}
	return OfferTypeSVOD
}

// Order is a pending purchase pairing an offer with a payment method and an
// optional coupon. It is created by the checkout service and mutated only by
// re-submission (method change, coupon apply).
type Order struct {
	ID                     int64   `json:"id"`
	OfferID                string  `json:"offerId"`
	CustomerID             string  `json:"customerId,omitempty"`
	PaymentMethodID        int64   `json:"paymentMethodId"`
	CouponCode             string  `json:"couponCode,omitempty"`
	TotalPrice             float64 `json:"totalPrice"`
	PriceCurrency          string  `json:"priceCurrency"`
	Discount               float64 `json:"discount,omitempty"`
	RequiredPaymentDetails bool    `json:"requiredPaymentDetails"`
}

// PaymentMethod is one entry of the fixed catalog returned by the checkout
// service.
type PaymentMethod struct {
	ID         int64  `json:"id"`
	MethodName string `json:"methodName"`
	Provider   string `json:"provider,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

// PayPalRedirect is the checkout service response for a redirect-based
// PayPal payment.
type PayPalRedirect struct {
	RedirectURL string `json:"redirectUrl"`
}
