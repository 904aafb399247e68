package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/migrations"
)

// StoreConfig selects and configures the entry store backend.
type StoreConfig struct {
	Driver          database.Driver
	URL             string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	AutoMigrate     bool
}

// EntryStore is an opened entry repository with its lifecycle hooks.
type EntryStore struct {
	Repository domain.EntryRepository
	Driver     database.Driver
	ping       func(ctx context.Context) error
	close      func(ctx context.Context) error
}

// Ping checks that the backing store is reachable.
func (s *EntryStore) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the store's connections.
func (s *EntryStore) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenEntryStore connects to the configured backend. An empty driver is
// detected from the URL.
func OpenEntryStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (*EntryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		url := cfg.URL
		if url == "" && cfg.MongoURI != "" {
			url = cfg.MongoURI
		}
		driver = database.DetectDriver(url)
	}
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	switch driver {
	case database.DriverMemory:
		logger.Info("using in-memory entry store")
		return &EntryStore{Repository: NewMemoryEntryRepository(), Driver: driver}, nil

	case database.DriverMongo:
		uri := cfg.MongoURI
		if uri == "" {
			uri = cfg.URL
		}
		client, err := ConnectMongo(ctx, uri)
		if err != nil {
			return nil, err
		}
		repo := NewMongoEntryRepository(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
		if cfg.AutoMigrate {
			if err := repo.EnsureIndexes(ctx); err != nil {
				_ = client.Disconnect(ctx)
				return nil, fmt.Errorf("failed to create indexes: %w", err)
			}
		}
		logger.Info("connected to MongoDB entry store",
			"database", cfg.MongoDatabase,
			"collection", cfg.MongoCollection,
		)
		return &EntryStore{
			Repository: withAvailability(repo),
			Driver:     driver,
			ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:      client.Disconnect,
		}, nil
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     driver,
		URL:        cfg.URL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrations.Run(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	store := &EntryStore{
		Driver: driver,
		ping:   conn.Ping,
		close:  func(context.Context) error { return conn.Close() },
	}
	if pg, ok := conn.(*postgres.Connection); ok {
		store.Repository = withAvailability(NewPostgresEntryRepository(pg.Pool()))
	} else {
		store.Repository = withAvailability(NewSQLiteEntryRepository(conn))
	}

	logger.Info("connected to SQL entry store", "driver", driver)
	return store, nil
}
