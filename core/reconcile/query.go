package reconcile

import (
	"fmt"

	"gorm.io/gorm"
)

// OwnerRecords returns the rows of owner in Order.
func OwnerRecords(db *gorm.DB, kind *Kind, owner Key) ([]Record, error) {
	key, err := kind.NormalizeKey(owner)
	if err != nil {
		return nil, err
	}
	rows, err := loadOwnerRows(db, kind, key)
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", kind.Name, err)
	}
	return rows, nil
}

// ChildRecords returns the rows referencing child, in ReferenceOrder for
// cross-referencing kinds.
func ChildRecords(db *gorm.DB, kind *Kind, child string) ([]Record, error) {
	rows, err := loadChildRows(db, kind, child)
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", kind.Name, err)
	}
	return rows, nil
}
