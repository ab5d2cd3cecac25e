package models

// Association tables. Every table is keyed by (owner columns, child column) and carries
// a unique (owner columns, order_index). Cross-referencing tables also carry a unique
// (child column, reference_order). Rows are written by the reconciliation engine through
// the column names below; the structs exist for schema bootstrap.
//
// Self-referential relationship tables restrict deletion of the related side; the
// service detaches those rows before deleting an entity.

// ArtistRelationship links an artist to a related artist (member of, alias of).
type ArtistRelationship struct {
	ArtistID        string  `gorm:"column:artist_id;type:char(36);primaryKey;uniqueIndex:idx_artist_relationships_order,priority:1"`
	RelatedArtistID string  `gorm:"column:related_artist_id;type:char(36);primaryKey"`
	OrderIndex      int     `gorm:"column:order_index;not null;uniqueIndex:idx_artist_relationships_order,priority:2"`
	Name            *string `gorm:"column:name;type:varchar(255)"`
	Description     *string `gorm:"column:description;type:text"`

	Artist        Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
	RelatedArtist Artist `gorm:"foreignKey:RelatedArtistID;constraint:OnDelete:RESTRICT"`
}

func (ArtistRelationship) TableName() string { return "artist_relationships" }

// WorkRelationship links a work to a related work (arrangement of, medley of).
type WorkRelationship struct {
	WorkID        string  `gorm:"column:work_id;type:char(36);primaryKey;uniqueIndex:idx_work_relationships_order,priority:1"`
	RelatedWorkID string  `gorm:"column:related_work_id;type:char(36);primaryKey"`
	OrderIndex    int     `gorm:"column:order_index;not null;uniqueIndex:idx_work_relationships_order,priority:2"`
	Name          *string `gorm:"column:name;type:varchar(255)"`
	Description   *string `gorm:"column:description;type:text"`

	Work        Work `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE"`
	RelatedWork Work `gorm:"foreignKey:RelatedWorkID;constraint:OnDelete:RESTRICT"`
}

func (WorkRelationship) TableName() string { return "work_relationships" }

// ReleaseRelationship links a release to a related release (remaster of).
type ReleaseRelationship struct {
	ReleaseID        string  `gorm:"column:release_id;type:char(36);primaryKey;uniqueIndex:idx_release_relationships_order,priority:1"`
	RelatedReleaseID string  `gorm:"column:related_release_id;type:char(36);primaryKey"`
	OrderIndex       int     `gorm:"column:order_index;not null;uniqueIndex:idx_release_relationships_order,priority:2"`
	Name             *string `gorm:"column:name;type:varchar(255)"`
	Description      *string `gorm:"column:description;type:text"`

	Release        Release `gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
	RelatedRelease Release `gorm:"foreignKey:RelatedReleaseID;constraint:OnDelete:RESTRICT"`
}

func (ReleaseRelationship) TableName() string { return "release_relationships" }

// ProductRelationship links a product to a related product (bundled with).
type ProductRelationship struct {
	ProductID        string  `gorm:"column:product_id;type:char(36);primaryKey;uniqueIndex:idx_product_relationships_order,priority:1"`
	RelatedProductID string  `gorm:"column:related_product_id;type:char(36);primaryKey"`
	OrderIndex       int     `gorm:"column:order_index;not null;uniqueIndex:idx_product_relationships_order,priority:2"`
	Name             *string `gorm:"column:name;type:varchar(255)"`
	Description      *string `gorm:"column:description;type:text"`

	Product        Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	RelatedProduct Product `gorm:"foreignKey:RelatedProductID;constraint:OnDelete:RESTRICT"`
}

func (ProductRelationship) TableName() string { return "product_relationships" }

// ArtistGenre assigns a genre to an artist.
type ArtistGenre struct {
	ArtistID   string `gorm:"column:artist_id;type:char(36);primaryKey;uniqueIndex:idx_artist_genres_order,priority:1"`
	GenreID    string `gorm:"column:genre_id;type:char(36);primaryKey"`
	OrderIndex int    `gorm:"column:order_index;not null;uniqueIndex:idx_artist_genres_order,priority:2"`

	Artist Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
	Genre  Genre  `gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE"`
}

func (ArtistGenre) TableName() string { return "artist_genres" }

// WorkGenre assigns a genre to a work.
type WorkGenre struct {
	WorkID     string `gorm:"column:work_id;type:char(36);primaryKey;uniqueIndex:idx_work_genres_order,priority:1"`
	GenreID    string `gorm:"column:genre_id;type:char(36);primaryKey"`
	OrderIndex int    `gorm:"column:order_index;not null;uniqueIndex:idx_work_genres_order,priority:2"`

	Work  Work  `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE"`
	Genre Genre `gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE"`
}

func (WorkGenre) TableName() string { return "work_genres" }

// ReleaseGenre assigns a genre to a release.
type ReleaseGenre struct {
	ReleaseID  string `gorm:"column:release_id;type:char(36);primaryKey;uniqueIndex:idx_release_genres_order,priority:1"`
	GenreID    string `gorm:"column:genre_id;type:char(36);primaryKey"`
	OrderIndex int    `gorm:"column:order_index;not null;uniqueIndex:idx_release_genres_order,priority:2"`

	Release Release `gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
	Genre   Genre   `gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE"`
}

func (ReleaseGenre) TableName() string { return "release_genres" }

// ReleaseArtist credits an artist on a release.
type ReleaseArtist struct {
	ReleaseID  string `gorm:"column:release_id;type:char(36);primaryKey;uniqueIndex:idx_release_artists_order,priority:1"`
	ArtistID   string `gorm:"column:artist_id;type:char(36);primaryKey"`
	OrderIndex int    `gorm:"column:order_index;not null;uniqueIndex:idx_release_artists_order,priority:2"`

	Release Release `gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
	Artist  Artist  `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
}

func (ReleaseArtist) TableName() string { return "release_artists" }

// WorkArtist credits an artist (composer, lyricist) on a work.
type WorkArtist struct {
	WorkID     string `gorm:"column:work_id;type:char(36);primaryKey;uniqueIndex:idx_work_artists_order,priority:1"`
	ArtistID   string `gorm:"column:artist_id;type:char(36);primaryKey"`
	OrderIndex int    `gorm:"column:order_index;not null;uniqueIndex:idx_work_artists_order,priority:2"`

	Work   Work   `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE"`
	Artist Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
}

func (WorkArtist) TableName() string { return "work_artists" }

// ReleaseTrackArtist credits a performer on a track. The owner foreign key is declared
// on ReleaseTrack.Artists.
type ReleaseTrackArtist struct {
	ReleaseID   string `gorm:"column:release_id;type:char(36);primaryKey;uniqueIndex:idx_release_track_artists_order,priority:1"`
	MediaNumber int    `gorm:"column:media_number;primaryKey;autoIncrement:false;uniqueIndex:idx_release_track_artists_order,priority:2"`
	TrackNumber int    `gorm:"column:track_number;primaryKey;autoIncrement:false;uniqueIndex:idx_release_track_artists_order,priority:3"`
	ArtistID    string `gorm:"column:artist_id;type:char(36);primaryKey"`
	OrderIndex  int    `gorm:"column:order_index;not null;uniqueIndex:idx_release_track_artists_order,priority:4"`

	Artist Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
}

func (ReleaseTrackArtist) TableName() string { return "release_track_artists" }

// ReleaseToProduct sells a release as part of a product.
type ReleaseToProduct struct {
	ReleaseID      string  `gorm:"column:release_id;type:char(36);primaryKey;uniqueIndex:idx_release_to_products_order,priority:1"`
	ProductID      string  `gorm:"column:product_id;type:char(36);primaryKey;uniqueIndex:idx_release_to_products_reference,priority:1"`
	OrderIndex     int     `gorm:"column:order_index;not null;uniqueIndex:idx_release_to_products_order,priority:2"`
	Name           *string `gorm:"column:name;type:varchar(255)"`
	Description    *string `gorm:"column:description;type:text"`
	ReferenceOrder int     `gorm:"column:reference_order;not null;uniqueIndex:idx_release_to_products_reference,priority:2"`

	Release Release `gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (ReleaseToProduct) TableName() string { return "release_to_products" }

// ReleaseToReleaseGroup places a release in a release group.
type ReleaseToReleaseGroup struct {
	ReleaseID      string  `gorm:"column:release_id;type:char(36);primaryKey;uniqueIndex:idx_release_to_release_groups_order,priority:1"`
	ReleaseGroupID string  `gorm:"column:release_group_id;type:char(36);primaryKey;uniqueIndex:idx_release_to_release_groups_reference,priority:1"`
	OrderIndex     int     `gorm:"column:order_index;not null;uniqueIndex:idx_release_to_release_groups_order,priority:2"`
	Name           *string `gorm:"column:name;type:varchar(255)"`
	Description    *string `gorm:"column:description;type:text"`
	ReferenceOrder int     `gorm:"column:reference_order;not null;uniqueIndex:idx_release_to_release_groups_reference,priority:2"`

	Release      Release      `gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
	ReleaseGroup ReleaseGroup `gorm:"foreignKey:ReleaseGroupID;constraint:OnDelete:CASCADE"`
}

func (ReleaseToReleaseGroup) TableName() string { return "release_to_release_groups" }

// WorkToProduct includes a work in a product (sheet music, songbooks).
type WorkToProduct struct {
	WorkID         string  `gorm:"column:work_id;type:char(36);primaryKey;uniqueIndex:idx_work_to_products_order,priority:1"`
	ProductID      string  `gorm:"column:product_id;type:char(36);primaryKey;uniqueIndex:idx_work_to_products_reference,priority:1"`
	OrderIndex     int     `gorm:"column:order_index;not null;uniqueIndex:idx_work_to_products_order,priority:2"`
	Name           *string `gorm:"column:name;type:varchar(255)"`
	Description    *string `gorm:"column:description;type:text"`
	ReferenceOrder int     `gorm:"column:reference_order;not null;uniqueIndex:idx_work_to_products_reference,priority:2"`

	Work    Work    `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (WorkToProduct) TableName() string { return "work_to_products" }

// ReleaseTrackToWork records which works a track performs. The owner foreign key is
// declared on ReleaseTrack.Works.
type ReleaseTrackToWork struct {
	ReleaseID      string  `gorm:"column:release_id;type:char(36);primaryKey;uniqueIndex:idx_release_track_to_works_order,priority:1"`
	MediaNumber    int     `gorm:"column:media_number;primaryKey;autoIncrement:false;uniqueIndex:idx_release_track_to_works_order,priority:2"`
	TrackNumber    int     `gorm:"column:track_number;primaryKey;autoIncrement:false;uniqueIndex:idx_release_track_to_works_order,priority:3"`
	WorkID         string  `gorm:"column:work_id;type:char(36);primaryKey;uniqueIndex:idx_release_track_to_works_reference,priority:1"`
	OrderIndex     int     `gorm:"column:order_index;not null;uniqueIndex:idx_release_track_to_works_order,priority:4"`
	Name           *string `gorm:"column:name;type:varchar(255)"`
	Description    *string `gorm:"column:description;type:text"`
	ReferenceOrder int     `gorm:"column:reference_order;not null;uniqueIndex:idx_release_track_to_works_reference,priority:2"`

	Work Work `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE"`
}

func (ReleaseTrackToWork) TableName() string { return "release_track_to_works" }
