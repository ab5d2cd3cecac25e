package reconcile

import (
	"fmt"
)

// ReferenceSequence is the ordered collection of owners referencing one child through a
// cross-referencing kind. It is only obtainable from Session.Sequence, which holds the
// child group lock for the rest of the transaction, and every mutation marks the group
// for compaction before commit.
type ReferenceSequence struct {
	s     *Session
	kind  *Kind
	child string
}

// Sequence opens the ReferenceOrder sequence of child, locking the group.
func (s *Session) Sequence(kind *Kind, child string) (*ReferenceSequence, error) {
	if !kind.CrossReferencing {
		return nil, fmt.Errorf("%w: %s", ErrNotCrossReferencing, kind.Name)
	}
	if err := s.lock(kind, child); err != nil {
		return nil, err
	}
	return &ReferenceSequence{s: s, kind: kind, child: child}, nil
}

// Child returns the identifier of the referenced entity.
func (q *ReferenceSequence) Child() string {
	return q.child
}

// Next returns the ReferenceOrder for owner: the existing value when a row for
// (owner, child) already exists, otherwise the tail of the sequence (max+1, or 0).
func (q *ReferenceSequence) Next(owner Key) (int, error) {
	existing, err := loadRow(q.s.tx, q.kind, owner, q.child)
	if err != nil {
		return 0, fmt.Errorf("load %s row: %w", q.kind.Name, err)
	}
	if existing != nil && existing.ReferenceOrder != nil {
		return *existing.ReferenceOrder, nil
	}

	max, err := maxReferenceOrder(q.s.tx, q.kind, q.child)
	if err != nil {
		return 0, fmt.Errorf("read %s tail: %w", q.kind.Name, err)
	}
	return max + 1, nil
}

// Append inserts the row for (owner, link) at the position given by Next and returns
// the assigned ReferenceOrder.
func (q *ReferenceSequence) Append(owner Key, link Link) (int, error) {
	position, err := q.Next(owner)
	if err != nil {
		return 0, err
	}
	link.Child = q.child
	if err := insertRow(q.s.tx, q.kind, owner, link, &position); err != nil {
		return 0, fmt.Errorf("insert %s row: %w", q.kind.Name, err)
	}
	q.s.markChild(q.kind, q.child)
	return position, nil
}

// Remove deletes the row of owner from the sequence. The gap is closed by compaction.
func (q *ReferenceSequence) Remove(owner Key) (bool, error) {
	n, err := deleteRows(q.s.tx, q.kind, owner, []string{q.child})
	if err != nil {
		return false, fmt.Errorf("delete %s row: %w", q.kind.Name, err)
	}
	q.s.markChild(q.kind, q.child)
	return n > 0, nil
}

// Compact renumbers the sequence to 0..m-1 and returns the number of rows moved.
func (q *ReferenceSequence) Compact() (int, error) {
	return Compact(q.s.tx, q.kind, ScopeChild, Key{q.child})
}

// Records returns the referencing rows in ReferenceOrder.
func (q *ReferenceSequence) Records() ([]Record, error) {
	return loadChildRows(q.s.tx, q.kind, q.child)
}
