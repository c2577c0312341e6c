package config

import "time"

func SetDefaultConfig() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "",
			Name:            "storefront",
			SSLMode:         "require",
			ConnectTimeout:  5 * time.Second,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 1 * time.Hour,
			ConnMaxIdleTime: 15 * time.Minute,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Account: ServiceConfig{
			Timeout: 10 * time.Second,
		},
		Checkout: ServiceConfig{
			Timeout: 10 * time.Second,
		},
		Payment: PaymentConfig{
			SubscriptionReloadDelay: 1 * time.Second,
		},
	}
}
