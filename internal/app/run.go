package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ottware/storefront/internal/clients/accountapi"
	"github.com/ottware/storefront/internal/clients/checkoutapi"
	"github.com/ottware/storefront/internal/config"
	"github.com/ottware/storefront/internal/notify"
	"github.com/ottware/storefront/internal/server"
	accountsvc "github.com/ottware/storefront/internal/services/account"
	checkoutsvc "github.com/ottware/storefront/internal/services/checkout"
	"github.com/ottware/storefront/internal/services/registration"
	storepostgres "github.com/ottware/storefront/internal/store/postgres"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// Abandoned checkout sessions are swept on a fixed schedule.
const (
	sessionTTL             = 24 * time.Hour
	sessionCleanupInterval = time.Hour
)

// App holds high-level application dependencies.
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	DB       *storepostgres.Pool
	Sessions *storepostgres.SessionStore
	Server   *server.Server
}

func Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	configPath := os.Getenv("STOREFRONT_CONFIG_PATH")
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to init config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	go app.cleanupSessions(ctx)

	serverErr := make(chan error, 1)
	go func() {
		if err := app.Server.Start(ctx); err != nil {
			serverErr <- err
		}
	}()

	return gracefulShutdown(ctx, cancel, log, app.DB, serverErr)
}

// cleanupSessions prunes idle checkout sessions until the context ends.
func (a *App) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.Sessions.DeleteExpired(ctx, sessionTTL)
			if err != nil {
				a.Logger.Error("session cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				a.Logger.Info("removed expired sessions", zap.Int64("count", removed))
			}
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	pool, err := storepostgres.NewPool(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	sessions := storepostgres.NewSessionStore(pool)

	accountClient := accountapi.NewClient(cfg.Account, log)
	checkoutClient := checkoutapi.NewClient(cfg.Checkout, log)

	notifier, err := initNotifier(cfg, log)
	if err != nil {
		return nil, err
	}

	registrationSvc := registration.NewService(accountClient, log)
	checkoutSvc := checkoutsvc.NewOrchestrator(
		sessions,
		checkoutClient,
		accountClient,
		notifier,
		cfg.Payment.SubscriptionReloadDelay,
		log,
	)
	accountSvc := accountsvc.NewService(accountClient, log)

	handlers := server.NewHandlers(
		registrationSvc,
		checkoutSvc,
		accountSvc,
		sessions,
		pool,
		cfg.Payment.ReturnSecret,
		log,
	)
	router := server.NewRouter(handlers, sessions, log)

	return &App{
		Config:   cfg,
		Logger:   log,
		DB:       pool,
		Sessions: sessions,
		Server:   server.New(cfg.Server, router, log),
	}, nil
}

func initNotifier(cfg *config.Config, log logger.Logger) (notify.Notifier, error) {
	if cfg.Notify.TelegramToken == "" {
		return notify.NoopNotifier{}, nil
	}
	notifier, err := notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init notifier: %w", err)
	}
	return notifier, nil
}
