package models

import "gorm.io/gorm"

// All returns every catalog model, entities before the association tables that
// reference them.
func All() []any {
	return []any{
		&Artist{},
		&Work{},
		&Release{},
		&ReleaseGroup{},
		&Product{},
		&Genre{},
		&ReleaseMedia{},
		&ReleaseTrack{},

		&ArtistRelationship{},
		&WorkRelationship{},
		&ReleaseRelationship{},
		&ProductRelationship{},
		&ArtistGenre{},
		&WorkGenre{},
		&ReleaseGenre{},
		&ReleaseArtist{},
		&WorkArtist{},
		&ReleaseTrackArtist{},
		&ReleaseToProduct{},
		&ReleaseToReleaseGroup{},
		&WorkToProduct{},
		&ReleaseTrackToWork{},
	}
}

// AutoMigrate creates or updates the catalog tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
