package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ottware/storefront/internal/config"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// Pool wraps pgxpool with the session store's connection settings.
type Pool struct {
	*pgxpool.Pool
	pingTimeout time.Duration
	logger      logger.Logger
}

func NewPool(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig("postgres://" + cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse db config: %w", err)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create pool: %w", err)
	}

	p := &Pool{
		Pool:        pool,
		pingTimeout: connectTimeout,
		logger:      log,
	}

	if err := p.HealthCheck(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Info("connected to session database",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", poolConfig.MaxConns),
	)

	return p, nil
}

// HealthCheck pings the database within the configured connect timeout. It
// backs the readiness endpoint.
func (p *Pool) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		p.logger.Error("session database health check failed", zap.Error(err))
		return err
	}
	return nil
}

func (p *Pool) Close() {
	p.Pool.Close()
	p.logger.Info("session database connection pool closed")
}
