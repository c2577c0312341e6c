package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/ottware/storefront/internal/domain/account"
	"github.com/ottware/storefront/internal/services/consent"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// AccountClient is the slice of the account service the registration flow
// needs.
type AccountClient interface {
	GetPublisherConsents(ctx context.Context) ([]account.Consent, error)
	Register(ctx context.Context, req account.RegistrationRequest) (*account.Customer, error)
}

// Service builds the registration form and submits completed registrations.
type Service struct {
	client AccountClient
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
	log    logger.Logger
}

func NewService(client AccountClient, log logger.Logger) *Service {
	return &Service{
		client: client,
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
		log:    log,
	}
}

// NewForm builds a fresh form seeded with the publisher's consent defaults.
func (s *Service) NewForm(ctx context.Context) (*Form, error) {
	publisherConsents, err := s.client.GetPublisherConsents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load consents: %w", err)
	}

	form := &Form{
		Fields: s.buildFields(publisherConsents),
		Values: consent.ExtractValues(publisherConsents),
		Errors: map[string]string{},
	}
	form.refresh()
	return form, nil
}

func (s *Service) buildFields(publisherConsents []account.Consent) []Field {
	fields := []Field{}
	for _, pc := range publisherConsents {
		label, isHTML := renderLabel(s.ugc, s.strict, pc.Label)
		fields = append(fields, Field{
			Name:        pc.Name,
			Label:       label,
			LabelIsHTML: isHTML,
			Placeholder: pc.Placeholder,
			Type:        pc.Type,
			Required:    pc.Required,
			Options:     pc.Options,
		})
	}
	return fields
}

// Validate checks the form and records field errors. It returns true when
// the form may be submitted.
func (s *Service) Validate(form *Form, publisherConsents []account.Consent) bool {
	form.Errors = map[string]string{}

	if !emailRe.MatchString(form.Email) {
		form.Errors["email"] = ErrEmailInvalid
	}
	if len(form.Password) < 8 {
		form.Errors["password"] = ErrPasswordInvalid
	}

	_, consentErrors := consent.CheckFromValues(publisherConsents, form.Values)
	for _, name := range consentErrors {
		form.Errors[name] = ErrFieldRequired
	}

	form.refresh()
	return len(form.Errors) == 0
}

// Submit validates the form and registers the customer with the account
// service. The returned form carries the post-submit state; the customer is
// non-nil only on success. A form already submitting is returned unchanged
// so double-submits are no-ops.
func (s *Service) Submit(ctx context.Context, form *Form) (*account.Customer, *Form, error) {
	if form.Submitting {
		return nil, form, nil
	}

	publisherConsents, err := s.client.GetPublisherConsents(ctx)
	if err != nil {
		return nil, form, fmt.Errorf("failed to load consents: %w", err)
	}

	form.FocusFormError = false
	form.FormError = ""

	if !s.Validate(form, publisherConsents) {
		return nil, form, nil
	}

	form.Submitting = true
	form.refresh()

	customerConsents, _ := consent.CheckFromValues(publisherConsents, form.Values)
	req := account.RegistrationRequest{
		Email:          form.Email,
		Password:       form.Password,
		RegisterFields: consent.ToRegisterFields(customerConsents),
		SubmittedAt:    time.Now().UTC(),
	}

	customer, err := s.client.Register(ctx, req)

	form.Submitting = false
	form.refresh()

	if err != nil {
		s.log.Warn("registration failed", zap.Error(err))
		form.FormError = err.Error()
		form.FocusFormError = true
		return nil, form, nil
	}

	s.log.Info("customer registered", zap.String("customer_id", customer.ID))
	return customer, form, nil
}
