package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/ottware/storefront/internal/app"
)

func main() {
	// Missing .env is fine; config falls back to defaults and env vars.
	_ = godotenv.Load()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application failed: %v", err)
	}
}
