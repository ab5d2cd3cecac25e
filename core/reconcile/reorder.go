package reconcile

import "fmt"

// Reorder overwrites one position dimension for a batch of rows. With useReferenceOrder
// only ReferenceOrder is written, otherwise only Order; Name and Description are never
// touched. Rows that do not exist, or that carry no value for the selected dimension,
// are skipped. It returns the number of rows whose value changed.
//
// Reorder does not compact. Callers are expected to send a complete dense reordering of
// the group they rewrite; duplicates surface as constraint violations.
func (s *Session) Reorder(kind *Kind, rows []Position, useReferenceOrder bool) (int, error) {
	if useReferenceOrder && !kind.CrossReferencing {
		return 0, fmt.Errorf("%w: %s", ErrNotCrossReferencing, kind.Name)
	}

	type target struct {
		owner Key
		child string
		to    int
	}

	// Last position wins when a row is addressed twice.
	byRow := make(map[string]int)
	var targets []target
	for _, p := range rows {
		value := p.Order
		if useReferenceOrder {
			value = p.ReferenceOrder
		}
		if value == nil {
			continue
		}
		owner, err := kind.NormalizeKey(p.Owner)
		if err != nil {
			return 0, err
		}
		id := owner.String() + "|" + p.Child
		if i, ok := byRow[id]; ok {
			targets[i].to = *value
			continue
		}
		byRow[id] = len(targets)
		targets = append(targets, target{owner: owner, child: p.Child, to: *value})
	}

	if useReferenceOrder {
		children := make([]string, 0, len(targets))
		for _, t := range targets {
			children = append(children, t.child)
		}
		if err := s.LockGroups(Groups(kind, children...)); err != nil {
			return 0, err
		}
	}

	var writes []positionWrite
	for _, t := range targets {
		rec, err := loadRow(s.tx, kind, t.owner, t.child)
		if err != nil {
			return 0, fmt.Errorf("load %s row: %w", kind.Name, err)
		}
		if rec == nil {
			continue
		}

		current := &rec.Order
		if useReferenceOrder {
			current = rec.ReferenceOrder
		}
		if current != nil && *current == t.to {
			continue
		}
		writes = append(writes, positionWrite{owner: t.owner, child: t.child, from: current, to: t.to})
	}

	column := OrderColumn
	if useReferenceOrder {
		column = ReferenceOrderColumn
	}
	if err := writePositions(s.tx, kind, column, writes); err != nil {
		return 0, fmt.Errorf("reorder %s: %w", kind.Name, err)
	}

	for _, w := range writes {
		s.Touch(kind.OwnerEntity, w.owner)
	}
	return len(writes), nil
}
