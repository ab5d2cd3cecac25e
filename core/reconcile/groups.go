package reconcile

import (
	"fmt"
	"sort"
)

// Group names one ReferenceOrder group.
type Group struct {
	Kind  *Kind
	Child string
}

// groupLess is the global lock order: child table, then child, then kind. Kinds sharing a
// child table (products) lock the same entity row with RowLocker, so they sort together.
func groupLess(a, b Group) bool {
	if a.Kind.ChildTable != b.Kind.ChildTable {
		return a.Kind.ChildTable < b.Kind.ChildTable
	}
	if a.Child != b.Child {
		return a.Child < b.Child
	}
	return a.Kind.Name < b.Kind.Name
}

// Groups returns one Group per child of a cross-referencing kind. Other kinds yield nil.
func Groups(kind *Kind, children ...string) []Group {
	if !kind.CrossReferencing {
		return nil
	}
	out := make([]Group, 0, len(children))
	for _, child := range children {
		out = append(out, Group{Kind: kind, Child: child})
	}
	return out
}

// OwnedGroups returns the groups currently referenced by the owners whose key starts
// with prefix, e.g. {releaseID} for every track of a release.
func (s *Session) OwnedGroups(kind *Kind, prefix Key) ([]Group, error) {
	if !kind.CrossReferencing {
		return nil, nil
	}
	if len(prefix) == 0 || len(prefix) > len(kind.OwnerColumns) {
		return nil, fmt.Errorf("%w: %s prefix has %d components", ErrKeyShape, kind.Name, len(prefix))
	}
	rows, err := loadOwnerPrefixRows(s.tx, kind, kind.normalizePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", kind.Name, err)
	}
	out := make([]Group, 0, len(rows))
	for _, r := range rows {
		out = append(out, Group{Kind: kind, Child: r.Child})
	}
	return out, nil
}

// LockGroups locks every group in the global order. A write that reconciles several
// owners or kinds calls it once, before its first Reconcile, with every group it can
// reach. Groups locked later by Reconcile are then already held, so two writes never
// wait on each other in opposite orders.
func (s *Session) LockGroups(groups []Group) error {
	sorted := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.Kind.CrossReferencing {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return groupLess(sorted[i], sorted[j])
	})
	for _, g := range sorted {
		if err := s.lock(g.Kind, g.Child); err != nil {
			return err
		}
	}
	return nil
}
