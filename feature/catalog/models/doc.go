// Package models defines the GORM models of the media catalog: the entities (artists,
// works, releases with their media and tracks, release groups, products, genres) and the
// fourteen ordered association tables the reconciliation engine maintains.
package models
