// Package navigation implements the query-parameter navigation scheme used
// by the storefront client: views are opened and closed by mutating the `u`
// parameter on the current location instead of a distinct route tree.
package navigation

import "net/url"

// ParamView is the query parameter carrying the active overlay view.
const ParamView = "u"

// Recognized view names.
const (
	ViewChooseOffer      = "choose-offer"
	ViewWelcome          = "welcome"
	ViewPaymentCancelled = "payment-cancelled"
	ViewPaymentError     = "payment-error"
	ViewLogin            = "login"
)

// Redirect tells the client where to navigate and whether to replace the
// current history entry.
type Redirect struct {
	Location string `json:"location"`
	Replace  bool   `json:"replace"`
}

// AddQueryParam returns the location's path and query with the given
// parameter set.
func AddQueryParam(loc *url.URL, key, value string) string {
	query := loc.Query()
	query.Set(key, value)
	return loc.Path + "?" + query.Encode()
}

// RemoveQueryParam returns the location's path and query with the given
// parameter removed. The query separator is dropped when no parameters
// remain.
func RemoveQueryParam(loc *url.URL, key string) string {
	query := loc.Query()
	query.Del(key)
	if len(query) == 0 {
		return loc.Path
	}
	return loc.Path + "?" + query.Encode()
}

// AddQueryParams appends parameters to a full href, preserving any existing
// query. Invalid hrefs are returned unchanged.
func AddQueryParams(href string, params map[string]string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	query := u.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// RemoveQueryParams removes parameters from a full href. Invalid hrefs are
// returned unchanged.
func RemoveQueryParams(href string, keys ...string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	query := u.Query()
	for _, key := range keys {
		query.Del(key)
	}
	u.RawQuery = query.Encode()
	return u.String()
}
