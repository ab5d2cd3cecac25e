package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// Record is one persisted association row.
type Record struct {
	// Owner is the owner key.
	Owner Key `json:"owner"`

	// Child is the identifier of the referenced entity.
	Child string `json:"child"`

	// Name is the free-text relationship name. Only set on named kinds.
	Name *string `json:"name,omitempty"`

	// Description is the free-text relationship description. Only set on named kinds.
	Description *string `json:"description,omitempty"`

	// Order is the owner-scoped position.
	Order int `json:"order"`

	// ReferenceOrder is the child-scoped position. Only set on cross-referencing kinds.
	ReferenceOrder *int `json:"reference_order,omitempty"`
}

// Link is one entry of a desired list handed to Session.Reconcile.
type Link struct {
	// Child is the identifier of the referenced entity.
	Child string

	// Name and Description are ignored for kinds that are not named.
	Name        *string
	Description *string

	// Order is the desired owner-scoped position. Desired lists must be dense and 0-based.
	Order int
}

// Position addresses one row for Session.Reorder together with its new position.
// Only the dimension selected by the reorder call is read.
type Position struct {
	Owner          Key
	Child          string
	Order          *int
	ReferenceOrder *int
}

// Result counts the rows changed by one reconciliation.
type Result struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

// Affected returns the total number of rows written.
func (r Result) Affected() int {
	return r.Inserted + r.Updated + r.Deleted
}

func (r *Result) add(other Result) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Deleted += other.Deleted
}

// Scope selects which position dimension a compaction renumbers.
type Scope int

const (
	// ScopeOwner renumbers Order within one owner.
	ScopeOwner Scope = iota
	// ScopeChild renumbers ReferenceOrder within one child.
	ScopeChild
)

func (s Scope) String() string {
	if s == ScopeChild {
		return "child"
	}
	return "owner"
}

// OwnerTouched reports that the association set of an owner changed.
type OwnerTouched struct {
	// Entity is the owner entity name (Kind.OwnerEntity).
	Entity string `json:"entity"`

	// Owner is the owner key.
	Owner Key `json:"owner"`
}

// TouchHook consumes OwnerTouched events. It is called once per session, inside the
// transaction and before commit, with at most one event per owner.
type TouchHook interface {
	OwnersTouched(ctx context.Context, tx *gorm.DB, events []OwnerTouched) error
}

// TouchHookFunc adapts a function to TouchHook.
type TouchHookFunc func(ctx context.Context, tx *gorm.DB, events []OwnerTouched) error

// OwnersTouched calls f.
func (f TouchHookFunc) OwnersTouched(ctx context.Context, tx *gorm.DB, events []OwnerTouched) error {
	return f(ctx, tx, events)
}
