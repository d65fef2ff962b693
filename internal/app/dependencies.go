package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// runtimeDependencies — хранилища, выбранные драйвером из Config.
type runtimeDependencies struct {
	catalog   domain.ProductCatalog
	users     domain.UserDirectory
	addresses domain.AddressRepository
	timeline  domain.TimelineRepository

	storageChecker healthcheck.Checker
	closeFn        func() error
}

// initRuntimeDependencies открывает хранилище. Для postgres при необходимости
// применяются миграции; closeFn закрывает пул подключений.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if driver == "" {
		driver = StorageDriverMemory
	}

	switch driver {
	case StorageDriverMemory:
		users := memory.NewUserDirectory(memory.SeedUsers())
		catalog := memory.NewProductCatalog(memory.SeedProducts())
		logger.WithField("storage_driver", driver).Info("using in-memory storage, state resets on restart")
		return &runtimeDependencies{
			catalog:   catalog,
			users:     users,
			addresses: memory.NewAddressRepository(users),
			timeline:  memory.NewTimelineRepository(),
			storageChecker: healthcheck.NewCriticalChecker("storage", func(ctx context.Context) error {
				_, err := catalog.List(ctx)
				return err
			}),
		}, nil

	case StorageDriverPostgres:
		dsn := strings.TrimSpace(cfg.PostgresDSN)
		if dsn == "" {
			return nil, fmt.Errorf("postgres storage requires a DSN")
		}

		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres schema is up to date")
		}

		logger.WithField("storage_driver", driver).Info("using postgres storage")
		return &runtimeDependencies{
			catalog:        postgres.NewProductCatalog(store),
			users:          postgres.NewUserDirectory(store),
			addresses:      postgres.NewAddressRepository(store),
			timeline:       postgres.NewTimelineRepository(store),
			storageChecker: healthcheck.NewCriticalChecker("storage", store.Ping),
			closeFn:        store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// close освобождает ресурсы хранилища.
func (d *runtimeDependencies) close(logger *log.Entry) {
	if d == nil || d.closeFn == nil {
		return
	}
	if err := d.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}
