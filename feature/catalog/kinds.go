package catalog

import (
	"media-catalog/core/reconcile"
	"media-catalog/feature/catalog/models"
)

// Owner entity names reported in touch events.
const (
	EntityArtist       = "artist"
	EntityWork         = "work"
	EntityRelease      = "release"
	EntityProduct      = "product"
	EntityReleaseTrack = "release_track"
)

// Association kind names.
const (
	KindArtistRelationships    = "artist_relationships"
	KindWorkRelationships      = "work_relationships"
	KindReleaseRelationships   = "release_relationships"
	KindProductRelationships   = "product_relationships"
	KindArtistGenres           = "artist_genres"
	KindWorkGenres             = "work_genres"
	KindReleaseGenres          = "release_genres"
	KindReleaseArtists         = "release_artists"
	KindWorkArtists            = "work_artists"
	KindReleaseTrackArtists    = "release_track_artists"
	KindReleaseToProducts      = "release_to_products"
	KindReleaseToReleaseGroups = "release_to_release_groups"
	KindWorkToProducts         = "work_to_products"
	KindReleaseTrackToWorks    = "release_track_to_works"
)

var trackOwner = []reconcile.Column{
	{Name: "release_id"},
	{Name: "media_number", Numeric: true},
	{Name: "track_number", Numeric: true},
}

func single(column string) []reconcile.Column {
	return []reconcile.Column{{Name: column}}
}

func relationship(name, entity, ownerColumn, childColumn, childTable string, model any) *reconcile.Kind {
	return &reconcile.Kind{
		Name:         name,
		Table:        name,
		OwnerEntity:  entity,
		OwnerColumns: single(ownerColumn),
		ChildColumn:  childColumn,
		ChildTable:   childTable,
		Named:        true,
		Model:        model,
	}
}

func assignment(name, entity string, owner []reconcile.Column, childColumn, childTable string, model any) *reconcile.Kind {
	return &reconcile.Kind{
		Name:         name,
		Table:        name,
		OwnerEntity:  entity,
		OwnerColumns: owner,
		ChildColumn:  childColumn,
		ChildTable:   childTable,
		Model:        model,
	}
}

func crossReference(name, entity string, owner []reconcile.Column, childColumn, childTable string, model any) *reconcile.Kind {
	return &reconcile.Kind{
		Name:             name,
		Table:            name,
		OwnerEntity:      entity,
		OwnerColumns:     owner,
		ChildColumn:      childColumn,
		ChildTable:       childTable,
		Named:            true,
		CrossReferencing: true,
		Model:            model,
	}
}

// NewRegistry returns the fourteen association kinds of the catalog.
func NewRegistry() (*reconcile.Registry, error) {
	return reconcile.NewRegistry(
		relationship(KindArtistRelationships, EntityArtist, "artist_id", "related_artist_id", "artists", &models.ArtistRelationship{}),
		relationship(KindWorkRelationships, EntityWork, "work_id", "related_work_id", "works", &models.WorkRelationship{}),
		relationship(KindReleaseRelationships, EntityRelease, "release_id", "related_release_id", "releases", &models.ReleaseRelationship{}),
		relationship(KindProductRelationships, EntityProduct, "product_id", "related_product_id", "products", &models.ProductRelationship{}),

		assignment(KindArtistGenres, EntityArtist, single("artist_id"), "genre_id", "genres", &models.ArtistGenre{}),
		assignment(KindWorkGenres, EntityWork, single("work_id"), "genre_id", "genres", &models.WorkGenre{}),
		assignment(KindReleaseGenres, EntityRelease, single("release_id"), "genre_id", "genres", &models.ReleaseGenre{}),
		assignment(KindReleaseArtists, EntityRelease, single("release_id"), "artist_id", "artists", &models.ReleaseArtist{}),
		assignment(KindWorkArtists, EntityWork, single("work_id"), "artist_id", "artists", &models.WorkArtist{}),
		assignment(KindReleaseTrackArtists, EntityReleaseTrack, trackOwner, "artist_id", "artists", &models.ReleaseTrackArtist{}),

		crossReference(KindReleaseToProducts, EntityRelease, single("release_id"), "product_id", "products", &models.ReleaseToProduct{}),
		crossReference(KindReleaseToReleaseGroups, EntityRelease, single("release_id"), "release_group_id", "release_groups", &models.ReleaseToReleaseGroup{}),
		crossReference(KindWorkToProducts, EntityWork, single("work_id"), "product_id", "products", &models.WorkToProduct{}),
		crossReference(KindReleaseTrackToWorks, EntityReleaseTrack, trackOwner, "work_id", "works", &models.ReleaseTrackToWork{}),
	)
}

// entity describes how an entity is deleted: which kinds it owns (directly or through
// its tracks) and which kinds reference it as child.
type entity struct {
	model      func() any
	owns       []string
	referenced []string
}

// Entity path segments accepted by Delete.
const (
	PathArtists       = "artists"
	PathWorks         = "works"
	PathReleases      = "releases"
	PathProducts      = "products"
	PathReleaseGroups = "release-groups"
	PathGenres        = "genres"
)

var entities = map[string]entity{
	PathArtists: {
		model:      func() any { return &models.Artist{} },
		owns:       []string{KindArtistRelationships, KindArtistGenres},
		referenced: []string{KindArtistRelationships, KindReleaseArtists, KindWorkArtists, KindReleaseTrackArtists},
	},
	PathWorks: {
		model:      func() any { return &models.Work{} },
		owns:       []string{KindWorkRelationships, KindWorkGenres, KindWorkArtists, KindWorkToProducts},
		referenced: []string{KindWorkRelationships, KindReleaseTrackToWorks},
	},
	PathReleases: {
		model: func() any { return &models.Release{} },
		owns: []string{
			KindReleaseRelationships, KindReleaseGenres, KindReleaseArtists, KindReleaseToProducts,
			KindReleaseToReleaseGroups, KindReleaseTrackArtists, KindReleaseTrackToWorks,
		},
		referenced: []string{KindReleaseRelationships},
	},
	PathProducts: {
		model:      func() any { return &models.Product{} },
		owns:       []string{KindProductRelationships},
		referenced: []string{KindProductRelationships, KindReleaseToProducts, KindWorkToProducts},
	},
	PathReleaseGroups: {
		model:      func() any { return &models.ReleaseGroup{} },
		referenced: []string{KindReleaseToReleaseGroups},
	},
	PathGenres: {
		model:      func() any { return &models.Genre{} },
		referenced: []string{KindArtistGenres, KindWorkGenres, KindReleaseGenres},
	},
}
