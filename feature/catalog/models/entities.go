package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity carries the generated identifier and timestamps of every catalog entity.
type Entity struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (e *Entity) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Base returns the embedded entity columns.
func (e *Entity) Base() *Entity {
	return e
}

// Artist is a performer, composer or group.
type Artist struct {
	Entity
	Name     string  `gorm:"column:name;type:varchar(255);not null" json:"name"`
	SortName *string `gorm:"column:sort_name;type:varchar(255)" json:"sort_name,omitempty"`
}

func (Artist) TableName() string { return "artists" }

// Work is a composition, recorded by release tracks.
type Work struct {
	Entity
	Title string  `gorm:"column:title;type:varchar(255);not null" json:"title"`
	ISWC  *string `gorm:"column:iswc;type:varchar(15)" json:"iswc,omitempty"`
}

func (Work) TableName() string { return "works" }

// Release is one published edition, made of media carrying tracks.
type Release struct {
	Entity
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	ReleaseDate *time.Time `gorm:"column:release_date" json:"release_date,omitempty"`

	Media []ReleaseMedia `gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

func (Release) TableName() string { return "releases" }

// ReleaseGroup bundles the releases of one logical album.
type ReleaseGroup struct {
	Entity
	Title string `gorm:"column:title;type:varchar(255);not null" json:"title"`
}

func (ReleaseGroup) TableName() string { return "release_groups" }

// Product is a purchasable item (a physical pressing, a download bundle).
type Product struct {
	Entity
	Title   string  `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Barcode *string `gorm:"column:barcode;type:varchar(32)" json:"barcode,omitempty"`
}

func (Product) TableName() string { return "products" }

// Genre is shared vocabulary assigned to artists, works and releases.
type Genre struct {
	Entity
	Name string `gorm:"column:name;type:varchar(128);not null;uniqueIndex:idx_genres_name" json:"name"`
}

func (Genre) TableName() string { return "genres" }

// ReleaseMedia is one medium (disc, side, file set) of a release.
type ReleaseMedia struct {
	ReleaseID   string  `gorm:"column:release_id;type:char(36);primaryKey" json:"release_id"`
	MediaNumber int     `gorm:"column:media_number;primaryKey;autoIncrement:false" json:"media_number"`
	Format      string  `gorm:"column:format;type:varchar(32)" json:"format"`
	Name        *string `gorm:"column:name;type:varchar(255)" json:"name,omitempty"`

	Tracks []ReleaseTrack `gorm:"foreignKey:ReleaseID,MediaNumber;references:ReleaseID,MediaNumber;constraint:OnDelete:CASCADE" json:"tracks,omitempty"`
}

func (ReleaseMedia) TableName() string { return "release_media" }

// ReleaseTrack is one track of a medium. Its key is (release, media number, track number).
type ReleaseTrack struct {
	ReleaseID     string    `gorm:"column:release_id;type:char(36);primaryKey" json:"release_id"`
	MediaNumber   int       `gorm:"column:media_number;primaryKey;autoIncrement:false" json:"media_number"`
	TrackNumber   int       `gorm:"column:track_number;primaryKey;autoIncrement:false" json:"track_number"`
	Title         string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	LengthSeconds *int      `gorm:"column:length_seconds" json:"length_seconds,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`

	Artists []ReleaseTrackArtist `gorm:"foreignKey:ReleaseID,MediaNumber,TrackNumber;references:ReleaseID,MediaNumber,TrackNumber;constraint:OnDelete:CASCADE" json:"-"`
	Works   []ReleaseTrackToWork `gorm:"foreignKey:ReleaseID,MediaNumber,TrackNumber;references:ReleaseID,MediaNumber,TrackNumber;constraint:OnDelete:CASCADE" json:"-"`
}

func (ReleaseTrack) TableName() string { return "release_tracks" }
