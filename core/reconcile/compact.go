package reconcile

import (
	"fmt"
	"math"
	"sort"

	"gorm.io/gorm"
)

// Compact renumbers one group to a dense 0-based sequence, preserving relative order.
// For ScopeOwner the group is an owner key and Order is renumbered; for ScopeChild the
// group is {childID} and ReferenceOrder is renumbered. Only rows whose value changes are
// written. It returns the number of rows moved. The group is read with a locking read.
//
// Compact does not lock; callers running it outside a Session must hold the group.
func Compact(tx *gorm.DB, kind *Kind, scope Scope, group Key) (int, error) {
	var (
		rows []Record
		err  error
	)

	switch scope {
	case ScopeOwner:
		owner, kerr := kind.NormalizeKey(group)
		if kerr != nil {
			return 0, kerr
		}
		rows, err = loadOwnerRows(forUpdate(tx), kind, owner)
	case ScopeChild:
		if !kind.CrossReferencing {
			return 0, fmt.Errorf("%w: %s", ErrNotCrossReferencing, kind.Name)
		}
		if len(group) != 1 {
			return 0, fmt.Errorf("%w: child group expects 1 component, got %d", ErrKeyShape, len(group))
		}
		rows, err = loadChildRows(forUpdate(tx), kind, Key{group[0]}.String())
	default:
		return 0, fmt.Errorf("unknown compaction scope %d", scope)
	}
	if err != nil {
		return 0, fmt.Errorf("load %s %s group: %w", kind.Name, scope, err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		pi, pj := position(rows[i], scope), position(rows[j], scope)
		if pi != pj {
			return pi < pj
		}
		return tieBreaker(rows[i], scope) < tieBreaker(rows[j], scope)
	})

	var writes []positionWrite
	for i, rec := range rows {
		current := positionPtr(rec, scope)
		if current != nil && *current == i {
			continue
		}
		writes = append(writes, positionWrite{owner: rec.Owner, child: rec.Child, from: current, to: i})
	}

	if err := writePositions(tx, kind, kind.positionColumn(scope), writes); err != nil {
		return 0, fmt.Errorf("compact %s %s group: %w", kind.Name, scope, err)
	}
	return len(writes), nil
}

func positionPtr(rec Record, scope Scope) *int {
	if scope == ScopeChild {
		return rec.ReferenceOrder
	}
	order := rec.Order
	return &order
}

// position sorts rows without a value after every positioned row.
func position(rec Record, scope Scope) int {
	if p := positionPtr(rec, scope); p != nil {
		return *p
	}
	return math.MaxInt
}

func tieBreaker(rec Record, scope Scope) string {
	if scope == ScopeChild {
		return rec.Owner.String()
	}
	return rec.Child
}

// IsDense reports whether the values form exactly {0, ..., n-1}.
func IsDense(values []int) bool {
	seen := make([]bool, len(values))
	for _, v := range values {
		if v < 0 || v >= len(values) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
