package config

import (
	"context"
	"os"
	"testing"
)

func validConfig() *Config {
	cfg := SetDefaultConfig()
	cfg.Account.BaseURL = "https://account.example.com"
	cfg.Checkout.BaseURL = "https://checkout.example.com"
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	err := NewValidator().Validate(validConfig())
	if err != nil {
		t.Errorf("Validate() returned unexpected error for valid config: %v", err)
	}
}

func TestValidate_MissingServiceURL(t *testing.T) {
	cfg := validConfig()
	cfg.Checkout.BaseURL = ""

	if err := NewValidator().Validate(cfg); err == nil {
		t.Error("Validate() should return error when checkout.base_url is empty")
	}
}

func TestValidate_InvalidEnv(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "testing"

	if err := NewValidator().Validate(cfg); err == nil {
		t.Error("Validate() should return error for unknown env")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0

	if err := NewValidator().Validate(cfg); err == nil {
		t.Error("Validate() should return error for port 0")
	}
}

func TestValidate_PartialTelegramConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Notify.TelegramToken = "token"
	cfg.Notify.TelegramChatID = 0

	if err := NewValidator().Validate(cfg); err == nil {
		t.Error("Validate() should return error when only telegram token is set")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("STOREFRONT_ACCOUNT_BASE_URL", "https://account.example.com")
	os.Setenv("STOREFRONT_CHECKOUT_BASE_URL", "https://checkout.example.com")
	os.Setenv("STOREFRONT_SERVER_PORT", "9090")
	defer func() {
		os.Unsetenv("STOREFRONT_ACCOUNT_BASE_URL")
		os.Unsetenv("STOREFRONT_CHECKOUT_BASE_URL")
		os.Unsetenv("STOREFRONT_SERVER_PORT")
	}()

	cfg, err := Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Account.BaseURL != "https://account.example.com" {
		t.Errorf("unexpected account base url: %s", cfg.Account.BaseURL)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Name != "storefront" {
		t.Errorf("expected default database name, got %s", cfg.Database.Name)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss",
		Name:     "storefront",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDatabaseDSN()

	want := "postgres:p%40ss@localhost:5432/storefront?sslmode=disable"
	if dsn != want {
		t.Errorf("expected %q, got %q", want, dsn)
	}
}
