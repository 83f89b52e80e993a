// Package app собирает общие зависимости консоли и CLI: хранилище сессии,
// клиент бэкенда, контроллер сессии и метрики
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tendersdz/db"
	"tendersdz/db/migrations"
	"tendersdz/internal/api"
	"tendersdz/internal/auth"
	"tendersdz/internal/config"
	"tendersdz/internal/metrics"
	"tendersdz/internal/session"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Session  *session.Session
	Client   *api.Client
	Auth     *auth.Controller

	closers []func() error
}

// New открывает хранилище, загружает сессию и создает клиент бэкенда.
// navigator получает запросы на переход к экрану входа.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, navigator api.Navigator) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)

	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	a.Session, err = session.Load(ctx, store)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	a.Client, err = api.NewClient(api.Options{
		BaseURL:   cfg.APIBaseURL,
		Session:   a.Session,
		Navigator: navigator,
		Metrics:   a.Metrics,
		Logger:    logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Auth = auth.NewController(a.Session, a.Client, logger)
	return a, nil
}

// Close освобождает соединения хранилища
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func noopClose() error { return nil }

// OpenStore создает хранилище сессии по cfg.Session.Backend
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func() error, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), noopClose, nil

	case config.BackendFile:
		logger.Debug("session store", "backend", "file", "path", cfg.Session.File)
		return session.NewFileStore(cfg.Session.File), noopClose, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("cannot connect to redis: %w", err)
		}
		logger.Debug("session store", "backend", "redis", "addr", cfg.Redis.Addr)
		return session.NewRedisStore(client, cfg.Session.KeyPrefix+":"), client.Close, nil

	case config.BackendPostgres:
		dbConn, err := sqlx.ConnectContext(ctx, "postgres", cfg.Postgres.Conn)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot connect to db: %w", err)
		}
		if err := migrations.Run(dbConn.DB, logger); err != nil {
			dbConn.Close()
			return nil, nil, err
		}
		logger.Debug("session store", "backend", "postgres", "namespace", cfg.Session.KeyPrefix)
		return db.NewStorage(dbConn, cfg.Session.KeyPrefix), dbConn.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
