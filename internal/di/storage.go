package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/cloudevolvers/go-contentstore/internal/collections"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/runtimeconfig"
)

// configureStorage opens the database for the bun provider unless one was
// supplied, and makes sure the documents table exists.
func (c *Container) configureStorage(ctx context.Context) error {
	if normalizeProvider(c.Config.Storage.Provider) != runtimeconfig.StorageProviderBun {
		return nil
	}
	if c.bunDB == nil {
		db, err := openBunDB(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := collections.EnsureSchema(ctx, c.bunDB); err != nil {
		c.Close()
		return fmt.Errorf("di: ensure document schema: %w", err)
	}
	c.logger.Info("storage.bun.configured", "driver", c.Config.Storage.Driver)
	return nil
}

func openBunDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	switch normalizeProvider(cfg.Driver) {
	case runtimeconfig.DriverPostgres:
		sqlDB, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	}
}

// newStore builds the collection store for name on the configured backend.
func newStore[T any](c *Container, name string) (collections.Store[T], error) {
	layout := collections.Layout{
		Dir:             c.Config.Storage.Dir,
		Name:            name,
		DefaultLanguage: c.Config.DefaultLanguage,
	}
	opts := []collections.Option{
		collections.WithLogger(logging.StoreLogger(c.loggerProvider)),
	}

	switch normalizeProvider(c.Config.Storage.Provider) {
	case runtimeconfig.StorageProviderBun:
		return collections.NewBunStore[T](c.bunDB, layout, opts...)
	case runtimeconfig.StorageProviderMemory:
		return collections.NewMemoryStore[T](layout, opts...)
	default:
		opts = append(opts, collections.WithBackup(c.Config.Storage.Backup))
		return collections.NewFileStore[T](layout, opts...)
	}
}

func normalizeProvider(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
