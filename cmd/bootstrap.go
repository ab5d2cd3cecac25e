package cmd

import (
	"fmt"

	"media-catalog/core/config"
	"media-catalog/core/database"
	"media-catalog/core/logger"
	"media-catalog/core/reconcile"
	"media-catalog/core/storage"
	"media-catalog/feature/catalog"
	"media-catalog/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   storage.Client
	catalog *catalog.Service
}

// bootstrap loads the configuration, connects to the database and builds the catalog
// service. Storage is optional: without an endpoint store stays nil.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logg.Info("Connected to catalog database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("name", cfg.Database.Name),
	)

	if cfg.Database.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		logg.Info("Catalog schema migrated")
	}

	locker, err := reconcile.NewLockerFromConfig(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog config: %w", err)
	}

	svc, err := catalog.NewService(db, locker, logg)
	if err != nil {
		return nil, err
	}

	var store storage.Client
	if cfg.Storage.Enabled() {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Storage disabled", zap.Error(err))
		} else {
			store = client
		}
	}

	return &app{cfg: cfg, logger: logg, db: db, store: store, catalog: svc}, nil
}
