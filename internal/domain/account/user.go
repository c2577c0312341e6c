package account

import "time"

// Customer is the account owner as reported by the account service.
type Customer struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RegDate   string `json:"regDate"`
}

// Subscription is the customer's active subscription, if any.
type Subscription struct {
	SubscriptionID      int64   `json:"subscriptionId"`
	OfferID             string  `json:"offerId"`
	Status              string  `json:"status"`
	ExpiresAt           int64   `json:"expiresAt"`
	NextPaymentPrice    float64 `json:"nextPaymentPrice"`
	NextPaymentCurrency string  `json:"nextPaymentCurrency"`
	PaymentGateway      string  `json:"paymentGateway"`
	PaymentMethod       string  `json:"paymentMethod"`
	OfferTitle          string  `json:"offerTitle"`
	Period              string  `json:"period"`
	TotalPrice          float64 `json:"totalPrice"`
}

// Transaction is a historical payment shown on the payments page.
type Transaction struct {
	TransactionID          string  `json:"transactionId"`
	OfferID                string  `json:"offerId"`
	OfferTitle             string  `json:"offerTitle"`
	PaymentMethod          string  `json:"paymentMethod"`
	TransactionPriceInclTax float64 `json:"transactionPriceInclTax"`
	TransactionCurrency    string  `json:"transactionCurrency"`
	CustomerCountry        string  `json:"customerCountry"`
	TransactionDate        string  `json:"transactionDate"`
}

// PaymentDetail is the stored payment instrument on the account.
type PaymentDetail struct {
	ID       int64  `json:"id"`
	Active   bool   `json:"active"`
	CardLast4 string `json:"cardLast4,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
}

// Features are account capabilities toggled by the backend.
type Features struct {
	CanUpdateEmail       bool `json:"canUpdateEmail"`
	CanRenewSubscription bool `json:"canRenewSubscription"`
}

// RegistrationRequest is the payload submitted to the account service when a
// new customer signs up. Consent answers travel in the registration-field
// encoding (string flags, see consent formatting).
type RegistrationRequest struct {
	Email          string         `json:"email"`
	Password       string         `json:"password"`
	RegisterFields map[string]any `json:"registerFields,omitempty"`
	SubmittedAt    time.Time      `json:"-"`
}
