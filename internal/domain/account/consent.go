package account

// Consent state values as submitted by the customer.
const (
	ConsentAccepted = "accepted"
	ConsentDeclined = "declined"
)

// Consent field types as defined by the publisher.
const (
	ConsentTypeCheckbox = "checkbox"
	ConsentTypeInput    = "input"
	ConsentTypeSelect   = "select"
)

// Consent is a publisher-defined data-collection or legal agreement shown
// during registration. Definitions come from the publisher backend and are
// read-only to this service.
type Consent struct {
	Name                  string   `json:"name"`
	Label                 string   `json:"label"`
	Placeholder           string   `json:"placeholder,omitempty"`
	Version               string   `json:"version"`
	Type                  string   `json:"type"`
	Required              bool     `json:"required"`
	EnabledByDefault      bool     `json:"enabledByDefault"`
	DefaultValue          string   `json:"defaultValue,omitempty"`
	IsCustomRegisterField bool     `json:"isCustomRegisterField,omitempty"`
	Options               []string `json:"options,omitempty"`
}

// ConsentValues maps consent names to their effective values. Checkbox
// consents carry a bool, custom register fields carry a string.
type ConsentValues map[string]any

// CustomerConsent is the customer's answer to one publisher consent. Value is
// a bool for checkbox consents and a string otherwise, mirroring the
// registration-field encoding the account backend expects.
type CustomerConsent struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	State   string `json:"state"`
	Value   any    `json:"value"`
}

// Accepted reports whether the customer accepted this consent.
func (c CustomerConsent) Accepted() bool {
	return c.State == ConsentAccepted
}

// Truthy reports whether a consent value counts as set: true booleans and
// non-empty strings.
func Truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case nil:
		return false
	default:
		return true
	}
}
