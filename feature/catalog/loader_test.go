package catalog_test

import (
	"testing"

	"media-catalog/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestLoader(t *testing.T) {
	svc, _ := newService(t)
	feature := catalog.NewFeature(svc)

	assert.Equal(t, "catalog", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.Same(t, svc, feature.Service())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))
}
