package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/foodtracker-backend/internal/adapter/filestore"
	"github.com/heartmarshall/foodtracker-backend/internal/adapter/postgres"
	pgarchive "github.com/heartmarshall/foodtracker-backend/internal/adapter/postgres/archive"
	"github.com/heartmarshall/foodtracker-backend/internal/config"
	"github.com/heartmarshall/foodtracker-backend/internal/domain"
	"github.com/heartmarshall/foodtracker-backend/internal/service/journal"
)

// Storage is the archive repository selected by storage.driver.
type Storage interface {
	Load(ctx context.Context) ([]*domain.Meal, error)
	Save(ctx context.Context, meals []*domain.Meal) error
	Ping(ctx context.Context) error
}

// Compile-time interface assertions.
var (
	_ Storage = (*filestore.Repo)(nil)
	_ Storage = (*pgarchive.Repo)(nil)
)

// OpenStorage builds the archive repository for the configured driver.
// For postgres it connects the pool and applies migrations unless
// database.skip_migrations is set. The returned close func releases resources.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Storage, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		repo, err := filestore.New(cfg.Storage.Dir, cfg.Storage.ArchiveName)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("prepare archive dir: %w", err)
		}
		logger.Info("using file storage", slog.String("path", repo.Path()))
		return repo, func() {}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if !cfg.Database.SkipMigrations {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		logger.Info("using postgres storage", slog.String("archive", cfg.Storage.ArchiveName))
		return pgarchive.New(pool, cfg.Storage.ArchiveName), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// BootstrapPolicy maps bootstrap.mode to the journal's first-run policy.
func BootstrapPolicy(cfg config.BootstrapConfig) journal.Bootstrap {
	if cfg.Mode == config.BootstrapEmpty {
		return journal.NoBootstrap
	}
	return journal.SampleMeals
}

// OpenJournal opens storage and loads the journal from it.
func OpenJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*journal.Service, Storage, func(), error) {
	storage, closeFn, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	svc := journal.NewService(logger, storage, BootstrapPolicy(cfg.Bootstrap))
	if err := svc.Open(ctx); err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return svc, storage, closeFn, nil
}
