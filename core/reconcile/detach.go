package reconcile

import "fmt"

// DetachOwner deletes every row whose owner key starts with prefix, ahead of deleting
// the owner entity itself. A prefix shorter than the owner key removes a whole subtree,
// e.g. {releaseID} for every track of a release. ReferenceOrder groups left with gaps
// are compacted when the session finishes.
func (s *Session) DetachOwner(kind *Kind, prefix Key) (int, error) {
	if len(prefix) == 0 || len(prefix) > len(kind.OwnerColumns) {
		return 0, fmt.Errorf("%w: %s prefix has %d components", ErrKeyShape, kind.Name, len(prefix))
	}
	rows, err := loadOwnerPrefixRows(s.tx, kind, kind.normalizePrefix(prefix))
	if err != nil {
		return 0, fmt.Errorf("load %s rows: %w", kind.Name, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if kind.CrossReferencing {
		children := make([]string, 0, len(rows))
		for _, r := range rows {
			children = append(children, r.Child)
		}
		if err := s.LockGroups(Groups(kind, children...)); err != nil {
			return 0, err
		}
	}

	deleted := 0
	for _, r := range rows {
		n, err := deleteRows(s.tx, kind, r.Owner, []string{r.Child})
		if err != nil {
			return deleted, fmt.Errorf("delete %s row: %w", kind.Name, err)
		}
		deleted += n
		if kind.CrossReferencing {
			s.markChild(kind, r.Child)
		}
	}
	return deleted, nil
}

// DetachChild deletes every row referencing child, ahead of deleting the child entity.
// The owners lose a position, so their Order groups are compacted when the session
// finishes and each owner is touched.
func (s *Session) DetachChild(kind *Kind, child string) (int, error) {
	if kind.CrossReferencing {
		if err := s.lock(kind, child); err != nil {
			return 0, err
		}
	}

	rows, err := loadChildRows(forUpdate(s.tx), kind, child)
	if err != nil {
		return 0, fmt.Errorf("load %s rows: %w", kind.Name, err)
	}

	deleted := 0
	for _, r := range rows {
		n, err := deleteRows(s.tx, kind, r.Owner, []string{child})
		if err != nil {
			return deleted, fmt.Errorf("delete %s row: %w", kind.Name, err)
		}
		deleted += n
		s.markOwner(kind, r.Owner)
		s.Touch(kind.OwnerEntity, r.Owner)
	}
	return deleted, nil
}
