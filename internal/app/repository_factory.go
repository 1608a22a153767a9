package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	directoryDomain "github.com/felixgeelhaar/rendezvous/internal/directory/domain"
	directoryPersistence "github.com/felixgeelhaar/rendezvous/internal/directory/infrastructure/persistence"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

// RepositoryFactory creates the contact repository for the configured
// backend and owns the connections it opens.
type RepositoryFactory struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func() error
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(cfg *config.Config, logger *slog.Logger) *RepositoryFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepositoryFactory{cfg: cfg, logger: logger}
}

// ContactRepository creates a contact repository for CONTACTS_BACKEND.
func (f *RepositoryFactory) ContactRepository(ctx context.Context) (directoryDomain.Repository, error) {
	switch f.cfg.ContactsBackend {
	case config.ContactsBackendFile, "":
		repo := directoryPersistence.NewFileContactRepository(f.cfg.ContactsFile, f.logger)
		if err := repo.Load(ctx); err != nil {
			return nil, err
		}
		return repo, nil

	case config.ContactsBackendSQLite:
		return f.sqlRepository(ctx, database.Config{
			Driver:     database.DriverSQLite,
			SQLitePath: f.cfg.SQLitePath,
		})

	case config.ContactsBackendPostgres:
		return f.sqlRepository(ctx, database.Config{
			Driver: database.DriverPostgres,
			URL:    f.cfg.DatabaseURL,
		})

	case config.ContactsBackendRedis:
		opts, err := redis.ParseURL(f.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		f.closers = append(f.closers, client.Close)
		f.logger.Info("Redis contact store connected", "addr", opts.Addr)
		return directoryPersistence.NewRedisContactRepository(client, ""), nil

	default:
		return nil, fmt.Errorf("unsupported contacts backend: %s", f.cfg.ContactsBackend)
	}
}

func (f *RepositoryFactory) sqlRepository(ctx context.Context, dbCfg database.Config) (directoryDomain.Repository, error) {
	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s contact store: %w", dbCfg.Driver, err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	f.closers = append(f.closers, conn.Close)
	f.logger.Info("SQL contact store ready", "driver", conn.Driver())
	return directoryPersistence.NewSQLContactRepository(conn), nil
}

// Close releases every connection opened by the factory.
func (f *RepositoryFactory) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	return errors.Join(errs...)
}
