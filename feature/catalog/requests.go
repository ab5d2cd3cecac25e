package catalog

import (
	"time"

	"media-catalog/core/reconcile"
)

// Desired lists follow one rule: a nil list (field absent) leaves the association
// untouched, an empty list removes every row. Positions are the slice indexes.

// LinkInput is one entry of a named desired list.
type LinkInput struct {
	ID          string  `json:"id" validate:"required,uuid"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
}

// ArtistInput creates (ID empty) or updates an artist.
type ArtistInput struct {
	ID            string      `json:"-"`
	Name          string      `json:"name" validate:"required,max=255"`
	SortName      *string     `json:"sort_name,omitempty" validate:"omitempty,max=255"`
	Relationships []LinkInput `json:"relationships,omitempty" validate:"omitempty,dive"`
	Genres        []string    `json:"genres,omitempty" validate:"omitempty,dive,uuid"`
}

// WorkInput creates or updates a work.
type WorkInput struct {
	ID            string      `json:"-"`
	Title         string      `json:"title" validate:"required,max=255"`
	ISWC          *string     `json:"iswc,omitempty" validate:"omitempty,max=15"`
	Relationships []LinkInput `json:"relationships,omitempty" validate:"omitempty,dive"`
	Genres        []string    `json:"genres,omitempty" validate:"omitempty,dive,uuid"`
	Composers     []string    `json:"composers,omitempty" validate:"omitempty,dive,uuid"`
	Products      []LinkInput `json:"products,omitempty" validate:"omitempty,dive"`
}

// ReleaseInput creates or updates a release with its media and tracks.
type ReleaseInput struct {
	ID            string       `json:"-"`
	Title         string       `json:"title" validate:"required,max=255"`
	ReleaseDate   *time.Time   `json:"release_date,omitempty"`
	Relationships []LinkInput  `json:"relationships,omitempty" validate:"omitempty,dive"`
	Products      []LinkInput  `json:"products,omitempty" validate:"omitempty,dive"`
	ReleaseGroups []LinkInput  `json:"release_groups,omitempty" validate:"omitempty,dive"`
	Artists       []string     `json:"artists,omitempty" validate:"omitempty,dive,uuid"`
	Genres        []string     `json:"genres,omitempty" validate:"omitempty,dive,uuid"`
	Media         []MediaInput `json:"media,omitempty" validate:"omitempty,unique=Number,dive"`
}

// MediaInput is one medium of a release. A nil Tracks list leaves its tracks untouched.
type MediaInput struct {
	Number int          `json:"number" validate:"min=1"`
	Format string       `json:"format" validate:"max=32"`
	Name   *string      `json:"name,omitempty" validate:"omitempty,max=255"`
	Tracks []TrackInput `json:"tracks,omitempty" validate:"omitempty,unique=Number,dive"`
}

// TrackInput is one track of a medium.
type TrackInput struct {
	Number        int         `json:"number" validate:"min=1"`
	Title         string      `json:"title" validate:"required,max=255"`
	LengthSeconds *int        `json:"length_seconds,omitempty" validate:"omitempty,min=0"`
	Artists       []string    `json:"artists,omitempty" validate:"omitempty,dive,uuid"`
	Works         []LinkInput `json:"works,omitempty" validate:"omitempty,dive"`
}

// ProductInput creates or updates a product.
type ProductInput struct {
	ID            string      `json:"-"`
	Title         string      `json:"title" validate:"required,max=255"`
	Barcode       *string     `json:"barcode,omitempty" validate:"omitempty,max=32"`
	Relationships []LinkInput `json:"relationships,omitempty" validate:"omitempty,dive"`
}

// ReleaseGroupInput creates or updates a release group.
type ReleaseGroupInput struct {
	ID    string `json:"-"`
	Title string `json:"title" validate:"required,max=255"`
}

// GenreInput creates or updates a genre.
type GenreInput struct {
	ID   string `json:"-"`
	Name string `json:"name" validate:"required,max=128"`
}

// PositionInput addresses one association row for a reorder. Owner is the string form
// of the owner key (components joined by ':').
type PositionInput struct {
	Owner          string `json:"owner" validate:"required"`
	Child          string `json:"child" validate:"required"`
	Order          *int   `json:"order,omitempty" validate:"omitempty,min=0"`
	ReferenceOrder *int   `json:"reference_order,omitempty" validate:"omitempty,min=0"`
}

// ReorderInput is the body of a reorder request.
type ReorderInput struct {
	Rows []PositionInput `json:"rows" validate:"required,min=1,dive"`
}

// WriteResult reports one owner write.
type WriteResult struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Created   bool           `json:"created"`
	Affected  map[string]int `json:"affected"`
}

func links(in []LinkInput) []reconcile.Link {
	if in == nil {
		return nil
	}
	out := make([]reconcile.Link, 0, len(in))
	for i, l := range in {
		out = append(out, reconcile.Link{Child: l.ID, Name: l.Name, Description: l.Description, Order: i})
	}
	return out
}

// linkIDs returns the child identifiers of in, nil for a nil list.
func linkIDs(in []LinkInput) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, l := range in {
		out = append(out, l.ID)
	}
	return out
}

// trackWorkIDs returns every work linked by the tracks of media. It is non-nil whenever
// media is, since removed media and tracks still release their works.
func trackWorkIDs(media []MediaInput) []string {
	if media == nil {
		return nil
	}
	out := []string{}
	for _, m := range media {
		for _, t := range m.Tracks {
			out = append(out, linkIDs(t.Works)...)
		}
	}
	return out
}

func assignments(ids []string) []reconcile.Link {
	if ids == nil {
		return nil
	}
	out := make([]reconcile.Link, 0, len(ids))
	for i, id := range ids {
		out = append(out, reconcile.Link{Child: id, Order: i})
	}
	return out
}
