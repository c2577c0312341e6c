package consent

import (
	"testing"

	"github.com/ottware/storefront/internal/domain/account"
)

func publisherFixture() []account.Consent {
	return []account.Consent{
		{Name: "terms", Label: "Terms and Conditions", Version: "1", Type: account.ConsentTypeCheckbox, Required: true},
		{Name: "marketing", Label: "Receive updates", Version: "1", Type: account.ConsentTypeCheckbox, EnabledByDefault: true},
		{Name: "company", Label: "Company", Version: "2", Type: account.ConsentTypeInput, DefaultValue: "acme", IsCustomRegisterField: true},
	}
}

func TestFormatValues(t *testing.T) {
	customer := []account.CustomerConsent{
		{Name: "terms", State: account.ConsentAccepted, Value: true},
		{Name: "marketing", State: account.ConsentDeclined, Value: false},
		{Name: "company", State: account.ConsentAccepted, Value: "jwp"},
	}

	values := FormatValues(publisherFixture(), customer)

	if values["terms"] != true {
		t.Errorf("expected terms true, got %v", values["terms"])
	}
	if values["marketing"] != false {
		t.Errorf("expected marketing false, got %v", values["marketing"])
	}
	if values["company"] != "jwp" {
		t.Errorf("expected company 'jwp', got %v", values["company"])
	}
}

func TestFormatValues_OmitsUnanswered(t *testing.T) {
	customer := []account.CustomerConsent{
		{Name: "terms", State: account.ConsentAccepted},
	}

	values := FormatValues(publisherFixture(), customer)

	if _, ok := values["marketing"]; ok {
		t.Error("expected unanswered consent to be omitted")
	}
}

func TestFormatValues_NilInputs(t *testing.T) {
	if got := FormatValues(nil, []account.CustomerConsent{}); len(got) != 0 {
		t.Errorf("expected empty map for nil publisher consents, got %v", got)
	}
	if got := FormatValues(publisherFixture(), nil); len(got) != 0 {
		t.Errorf("expected empty map for nil customer consents, got %v", got)
	}
}

func TestFormat_TrueOnlyForAccepted(t *testing.T) {
	customer := []account.CustomerConsent{
		{Name: "terms", State: account.ConsentAccepted},
		{Name: "marketing", State: account.ConsentDeclined},
	}

	values := Format(publisherFixture(), customer)

	if !values["terms"] {
		t.Error("expected accepted consent to map to true")
	}
	if _, ok := values["marketing"]; ok {
		t.Error("expected declined consent to be omitted")
	}
	if _, ok := values["company"]; ok {
		t.Error("expected unanswered consent to be omitted")
	}
}

func TestFormat_NilInputs(t *testing.T) {
	if got := Format(nil, nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestExtractValues(t *testing.T) {
	values := ExtractValues(publisherFixture())

	if values["terms"] != false {
		t.Errorf("expected terms default false, got %v", values["terms"])
	}
	if values["marketing"] != true {
		t.Errorf("expected marketing default true, got %v", values["marketing"])
	}
	if values["company"] != "acme" {
		t.Errorf("expected company default 'acme', got %v", values["company"])
	}
}

func TestExtractValues_Nil(t *testing.T) {
	if got := ExtractValues(nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestFromValues(t *testing.T) {
	values := account.ConsentValues{
		"terms":     true,
		"marketing": false,
		"company":   "jwp",
	}

	consents := FromValues(publisherFixture(), values)

	if len(consents) != 3 {
		t.Fatalf("expected 3 consents, got %d", len(consents))
	}
	if consents[0].State != account.ConsentAccepted {
		t.Errorf("expected terms accepted, got %s", consents[0].State)
	}
	if consents[1].State != account.ConsentDeclined {
		t.Errorf("expected marketing declined, got %s", consents[1].State)
	}
	if consents[2].Version != "2" {
		t.Errorf("expected publisher version carried over, got %s", consents[2].Version)
	}
}

func TestFromValues_NilInputs(t *testing.T) {
	if got := FromValues(nil, account.ConsentValues{}); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
	if got := FromValues(publisherFixture(), nil); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestCheckFromValues_FlagsRequiredOnly(t *testing.T) {
	values := account.ConsentValues{
		"terms":     false,
		"marketing": false,
		"company":   "",
	}

	consents, errs := CheckFromValues(publisherFixture(), values)

	if len(consents) != 3 {
		t.Fatalf("expected 3 consents, got %d", len(consents))
	}
	if len(errs) != 1 || errs[0] != "terms" {
		t.Fatalf("expected only required 'terms' to be flagged, got %v", errs)
	}
}

func TestCheckFromValues_RequiredSatisfied(t *testing.T) {
	values := account.ConsentValues{"terms": true}

	_, errs := CheckFromValues(publisherFixture(), values)

	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestCheckFromValues_PreservesPublisherOrder(t *testing.T) {
	publisher := []account.Consent{
		{Name: "a", Required: true},
		{Name: "b", Required: true},
		{Name: "c", Required: true},
	}

	_, errs := CheckFromValues(publisher, account.ConsentValues{})

	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if errs[i] != want {
			t.Errorf("expected errs[%d] = %q, got %q", i, want, errs[i])
		}
	}
}

func TestToRegisterField_UsState(t *testing.T) {
	usState := account.CustomerConsent{Name: "us_state", Value: "ca"}

	// No sibling country consent: forced to n/a.
	if _, v := ToRegisterField(usState, []account.CustomerConsent{usState}); v != "n/a" {
		t.Errorf("expected 'n/a' without country sibling, got %v", v)
	}

	// Sibling country not us: still forced to n/a.
	withUK := []account.CustomerConsent{usState, {Name: "country", Value: "uk"}}
	if _, v := ToRegisterField(usState, withUK); v != "n/a" {
		t.Errorf("expected 'n/a' with non-us country, got %v", v)
	}

	// Sibling country us: value passes through.
	withUS := []account.CustomerConsent{usState, {Name: "country", Value: "us"}}
	if _, v := ToRegisterField(usState, withUS); v != "ca" {
		t.Errorf("expected 'ca' with us country, got %v", v)
	}

	// n/a maps to empty string when the country is us.
	na := account.CustomerConsent{Name: "us_state", Value: "n/a"}
	withUSNA := []account.CustomerConsent{na, {Name: "country", Value: "us"}}
	if _, v := ToRegisterField(na, withUSNA); v != "" {
		t.Errorf("expected empty string for 'n/a' with us country, got %v", v)
	}
}

func TestToRegisterField_BooleanSerialization(t *testing.T) {
	if _, v := ToRegisterField(account.CustomerConsent{Name: "marketing", Value: true}, nil); v != "on" {
		t.Errorf("expected 'on', got %v", v)
	}
	if _, v := ToRegisterField(account.CustomerConsent{Name: "marketing", Value: false}, nil); v != "off" {
		t.Errorf("expected 'off', got %v", v)
	}

	// terms keeps its boolean value.
	if _, v := ToRegisterField(account.CustomerConsent{Name: "terms", Value: true}, nil); v != true {
		t.Errorf("expected terms to stay boolean true, got %v", v)
	}
}

func TestToRegisterFields_SkipsEmptyValues(t *testing.T) {
	consents := []account.CustomerConsent{
		{Name: "terms", Value: true},
		{Name: "company", Value: ""},
		{Name: "marketing", Value: false},
	}

	fields := ToRegisterFields(consents)

	if _, ok := fields["company"]; ok {
		t.Error("expected empty-valued consent to be skipped")
	}
	if fields["terms"] != true {
		t.Errorf("expected terms true, got %v", fields["terms"])
	}
	if fields["marketing"] != "off" {
		t.Errorf("expected marketing 'off', got %v", fields["marketing"])
	}
}
