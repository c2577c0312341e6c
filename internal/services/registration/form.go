package registration

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/ottware/storefront/internal/domain/account"
)

// Error keys surfaced to the client for localization.
const (
	ErrEmailInvalid    = "registration.email_invalid"
	ErrPasswordInvalid = "registration.password_invalid"
	ErrFieldRequired   = "registration.field_required"
)

// Field is one rendered consent input on the registration form.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	LabelIsHTML bool     `json:"labelIsHtml"`
	Placeholder string   `json:"placeholder,omitempty"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
}

// Form is the registration form view model. Field values and errors are
// owned here; the client renders what it is given and posts changes back.
type Form struct {
	Email    string                `json:"email"`
	Password string                `json:"password"`
	Fields   []Field               `json:"fields"`
	Values   account.ConsentValues `json:"values"`

	Errors    map[string]string `json:"errors"`
	FormError string            `json:"formError,omitempty"`
	// FocusFormError tells the client to scroll the form error into view.
	// Set only when the error newly appears.
	FocusFormError bool `json:"focusFormError,omitempty"`

	Submitting bool `json:"submitting"`
	CanSubmit  bool `json:"canSubmit"`
}

var (
	anchorOpenRe  = regexp.MustCompile(`(?i)<a(\s[^>]*)?>`)
	anchorCloseRe = regexp.MustCompile(`(?i)</a>`)
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// renderLabel decides how a consent label reaches the client. Labels with a
// matched anchor open/close pair render as markup; everything else renders
// as stripped plain text. The anchor check runs against the sanitized label,
// but the markup branch ships the original label untouched, so consent
// labels must come from a trusted publisher source. The check is a regex
// presence test, not a markup-aware parse.
func renderLabel(ugc *bluemonday.Policy, strict *bluemonday.Policy, label string) (string, bool) {
	sanitized := ugc.Sanitize(label)
	if anchorOpenRe.MatchString(sanitized) && anchorCloseRe.MatchString(sanitized) {
		return label, true
	}
	return strict.Sanitize(label), false
}

// refresh recomputes the derived flags after any change to values or state.
func (f *Form) refresh() {
	f.CanSubmit = f.Email != "" && f.Password != "" && !f.Submitting
}
