// Package consent converts between publisher-defined consent definitions,
// customer-submitted consent state, and the registration-field encoding the
// account service expects. All operations are pure and treat a missing
// consent configuration as "no consents apply" rather than as an error.
package consent

import "github.com/ottware/storefront/internal/domain/account"

// FormatValues produces the effective value per consent name: the accepted
// state for checkbox-like consents, the raw string for custom register
// fields. Consents the customer never answered are omitted.
func FormatValues(publisherConsents []account.Consent, customerConsents []account.CustomerConsent) account.ConsentValues {
	values := account.ConsentValues{}
	if publisherConsents == nil || customerConsents == nil {
		return values
	}

	for _, pc := range publisherConsents {
		cc, ok := findByName(customerConsents, pc.Name)
		if !ok {
			continue
		}
		if pc.IsCustomRegisterField {
			values[pc.Name] = stringOrEmpty(cc.Value)
		} else {
			values[pc.Name] = cc.Accepted()
		}
	}

	return values
}

// Format produces a name-to-bool mapping, true only for consents whose
// customer state is exactly accepted. Declined or absent consents are
// omitted.
func Format(publisherConsents []account.Consent, customerConsents []account.CustomerConsent) map[string]bool {
	values := map[string]bool{}
	if publisherConsents == nil || customerConsents == nil {
		return values
	}

	for _, pc := range publisherConsents {
		if cc, ok := findByName(customerConsents, pc.Name); ok && cc.Accepted() {
			values[pc.Name] = true
		}
	}

	return values
}

// ExtractValues produces the default value per publisher consent, used to
// seed a fresh registration form.
func ExtractValues(consents []account.Consent) account.ConsentValues {
	values := account.ConsentValues{}
	if consents == nil {
		return values
	}

	for _, c := range consents {
		if c.Type == account.ConsentTypeCheckbox {
			values[c.Name] = c.EnabledByDefault
		} else {
			values[c.Name] = c.DefaultValue
		}
	}

	return values
}

// FromValues emits a customer consent record per publisher consent, accepted
// when the submitted value is truthy.
func FromValues(publisherConsents []account.Consent, values account.ConsentValues) []account.CustomerConsent {
	consents := []account.CustomerConsent{}
	if publisherConsents == nil || values == nil {
		return consents
	}

	for _, pc := range publisherConsents {
		consents = append(consents, newCustomerConsent(pc, values[pc.Name]))
	}

	return consents
}

// CheckFromValues validates that every required consent has a truthy value.
// It returns the customer consent records plus the names that failed
// validation, in publisher order.
func CheckFromValues(publisherConsents []account.Consent, values account.ConsentValues) ([]account.CustomerConsent, []string) {
	customerConsents := []account.CustomerConsent{}
	consentsErrors := []string{}
	if publisherConsents == nil || values == nil {
		return customerConsents, consentsErrors
	}

	for _, pc := range publisherConsents {
		if pc.Required && !account.Truthy(values[pc.Name]) {
			consentsErrors = append(consentsErrors, pc.Name)
		}
		customerConsents = append(customerConsents, newCustomerConsent(pc, values[pc.Name]))
	}

	return customerConsents, consentsErrors
}

// IsNotEmpty reports whether the consent carries a value worth submitting.
func IsNotEmpty(c account.CustomerConsent) bool {
	return c.Value != ""
}

// ToRegisterField remaps one customer consent to a registration field
// key/value pair. Two quirks of the registration-field encoding live here:
// the us_state consent is forced to "n/a" unless a sibling country consent
// equals "us", and boolean consents other than terms serialize as the
// strings "on"/"off".
func ToRegisterField(c account.CustomerConsent, collection []account.CustomerConsent) (string, any) {
	if c.Name == "us_state" {
		for _, sibling := range collection {
			if sibling.Name == "country" && sibling.Value == "us" {
				if c.Value == "n/a" {
					return c.Name, ""
				}
				return c.Name, c.Value
			}
		}
		return c.Name, "n/a"
	}

	if b, isBool := c.Value.(bool); isBool && c.Name != "terms" {
		if b {
			return c.Name, "on"
		}
		return c.Name, "off"
	}

	return c.Name, c.Value
}

// ToRegisterFields serializes non-empty customer consents to the
// registration-field map submitted to the account service.
func ToRegisterFields(consents []account.CustomerConsent) map[string]any {
	fields := map[string]any{}
	for _, c := range consents {
		if !IsNotEmpty(c) {
			continue
		}
		name, value := ToRegisterField(c, consents)
		fields[name] = value
	}
	return fields
}

func newCustomerConsent(pc account.Consent, value any) account.CustomerConsent {
	state := account.ConsentDeclined
	if account.Truthy(value) {
		state = account.ConsentAccepted
	}
	if value == nil {
		value = ""
	}
	return account.CustomerConsent{
		Name:    pc.Name,
		Version: pc.Version,
		State:   state,
		Value:   value,
	}
}

func findByName(consents []account.CustomerConsent, name string) (account.CustomerConsent, bool) {
	for _, c := range consents {
		if c.Name == name {
			return c, true
		}
	}
	return account.CustomerConsent{}, false
}

func stringOrEmpty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
