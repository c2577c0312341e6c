package config

import (
	"errors"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

type Validator interface {
	Validate(cfg *Config) error
}

type structValidator struct {
	validate *validatorv10.Validate
}

func NewValidator() Validator {
	return &structValidator{validate: validatorv10.New()}
}

func (v *structValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		var invalid *validatorv10.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid config structure: %w", err)
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	// Telegram notifications need both pieces or neither.
	if (cfg.Notify.TelegramToken == "") != (cfg.Notify.TelegramChatID == 0) {
		return fmt.Errorf("notify.telegram_token and notify.telegram_chat_id must be set together")
	}

	return nil
}
