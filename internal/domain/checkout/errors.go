package checkout

import (
	"fmt"
	"strings"
)

// The checkout service reports failures as plain text messages rather than
// structured codes, so stale-order detection works by substring match. Every
// phrase the gateway is known to emit lives in this file; nothing outside it
// may inspect raw gateway messages.

// orderNotFoundPhrase is the phrase returned when an operation references an
// order that no longer exists.
const orderNotFoundPhrase = "Order with id %d not found"

// orderNotFoundMethodChangePhrase is a variant with a stray trailing brace
// that the gateway has been observed returning on payment-method changes.
// It does not match the phrase used elsewhere; do not "fix" one to the other
// without confirming against the live gateway.
const orderNotFoundMethodChangePhrase = "Order with id %d} not found"

// IsOrderNotFound reports whether err is the gateway's stale-order rejection
// for the given order.
func IsOrderNotFound(err error, orderID int64) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), fmt.Sprintf(orderNotFoundPhrase, orderID))
}

// IsOrderNotFoundOnMethodChange reports whether err matches the variant
// stale-order phrase seen on payment-method change.
func IsOrderNotFoundOnMethodChange(err error, orderID int64) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), fmt.Sprintf(orderNotFoundMethodChangePhrase, orderID))
}
