package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	storepostgres "github.com/ottware/storefront/internal/store/postgres"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

func gracefulShutdown(ctx context.Context, cancel context.CancelFunc, log logger.Logger, pool *storepostgres.Pool, serverErr <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		log.Info("context cancelled, starting shutdown")
	case sig := <-sigChan:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server failed", zap.Error(err))
		cancel()
		pool.Close()
		return err
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Info("closing database connections")
	pool.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("shutdown timeout exceeded")
		return shutdownCtx.Err()
	default:
		log.Info("shutdown completed successfully")
		return nil
	}
}
