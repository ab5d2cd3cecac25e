package integrity

import (
	"time"

	"media-catalog/core/reconcile"
	"media-catalog/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Integrity feature.
func NewFeature(db *gorm.DB, engine *reconcile.Engine, registry *reconcile.Registry, client storage.Client, bucket string, ttl time.Duration, logger *zap.Logger) *Feature {
	svc := NewService(db, engine, registry, client, bucket, ttl, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service returns the integrity service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
