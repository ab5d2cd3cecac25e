package models_test

import (
	"testing"

	"media-catalog/core/database"
	"media-catalog/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAutoMigrate(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	m := db.Migrator()
	for _, model := range models.All() {
		assert.True(t, m.HasTable(model), "%T", model)
	}

	assert.True(t, m.HasIndex(&models.ReleaseToProduct{}, "idx_release_to_products_order"))
	assert.True(t, m.HasIndex(&models.ReleaseToProduct{}, "idx_release_to_products_reference"))
	assert.True(t, m.HasIndex(&models.ReleaseTrackToWork{}, "idx_release_track_to_works_reference"))
	assert.False(t, m.HasColumn(&models.ArtistGenre{}, "reference_order"))

	// Running twice is a no-op.
	require.NoError(t, models.AutoMigrate(db))
}

func TestOrderUniqueness(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	artist := models.Artist{Name: "A"}
	require.NoError(t, db.Create(&artist).Error)
	rock := models.Genre{Name: "Rock"}
	jazz := models.Genre{Name: "Jazz"}
	require.NoError(t, db.Create(&rock).Error)
	require.NoError(t, db.Create(&jazz).Error)

	require.NoError(t, db.Omit("Artist", "Genre").Create(&models.ArtistGenre{ArtistID: artist.ID, GenreID: rock.ID, OrderIndex: 0}).Error)
	err = db.Omit("Artist", "Genre").Create(&models.ArtistGenre{ArtistID: artist.ID, GenreID: jazz.ID, OrderIndex: 0}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestEntityGeneratesID(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	w := models.Work{Title: "Song"}
	require.NoError(t, db.Create(&w).Error)
	assert.Len(t, w.ID, 36)
	assert.Same(t, &w.Entity, w.Base())
}
