package cli

import (
	"context"
	"fmt"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/config"
	"socialportfolio/backend/internal/database"
	"socialportfolio/backend/internal/social"
	"socialportfolio/backend/internal/store/mongostore"
	"socialportfolio/backend/internal/store/sqlstore"
)

// Backend is everything the services need from persistence.
type Backend interface {
	account.Store
	social.Store
	social.FeedStore
}

// openBackend connects to the store selected by cfg.StoreDriver. When prepare
// is set, the schema or indexes are brought up to date first.
func openBackend(ctx context.Context, cfg *config.Config, prepare bool) (Backend, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Open(cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if prepare {
			if err := database.Migrate(db); err != nil {
				_ = sqlDB.Close()
				return nil, nil, err
			}
		}
		return sqlstore.New(db), sqlDB.Close, nil

	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		if prepare {
			if err := store.EnsureIndexes(ctx); err != nil {
				_ = store.Close(context.Background())
				return nil, nil, err
			}
		}
		return store, func() error { return store.Close(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
