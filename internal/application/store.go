package application

import (
	"context"
	"fmt"

	"github.com/psds-microservice/repair-service/internal/config"
	"github.com/psds-microservice/repair-service/internal/database"
	"github.com/psds-microservice/repair-service/internal/store"
	"github.com/psds-microservice/repair-service/internal/store/memstore"
	"github.com/psds-microservice/repair-service/internal/store/mongostore"
	"github.com/psds-microservice/repair-service/internal/store/pgstore"
	"go.uber.org/zap"
)

// OpenStore открывает хранилище по STORE_DRIVER. Для postgres перед открытием
// применяются миграции.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := database.MigrateUp(ctx, cfg.DatabaseURL(), log.Named("migrate")); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := database.Open(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		return pgstore.New(db), nil
	case config.StoreMongo:
		st, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		return st, nil
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
