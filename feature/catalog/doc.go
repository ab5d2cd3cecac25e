// Package catalog exposes the owner writes of the media catalog. Each write stores the
// owner entity and reconciles its ordered associations in one transaction through the
// reconcile engine, then bumps updated_at on every owner whose associations changed.
//
// Desired lists are positional: the index of an entry is its order. A nil list leaves
// an association untouched, an empty list clears it.
package catalog
