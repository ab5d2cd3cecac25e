package reconcile

// Row level access to association tables. All functions take the transaction handle.
//
// Reads that decide a position (tail of a sequence, rows being renumbered) go through
// forUpdate. On MySQL a locking read sees the latest committed rows instead of the
// snapshot taken at the first plain read of the transaction, which may predate the
// group lock. SQLite drops the clause.

import (
	"database/sql"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

// loadOwnerRows returns the rows of one owner ordered by Order.
func loadOwnerRows(tx *gorm.DB, kind *Kind, owner Key) ([]Record, error) {
	var rows []map[string]any
	err := tx.Table(kind.Table).
		Select(kind.Columns()).
		Where(kind.ownerWhere(owner)).
		Order(OrderColumn).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeAll(kind, rows), nil
}

// loadChildRows returns the rows referencing one child ordered by ReferenceOrder, or by
// owner key for kinds without one.
func loadChildRows(tx *gorm.DB, kind *Kind, child string) ([]Record, error) {
	q := tx.Table(kind.Table).
		Select(kind.Columns()).
		Where(kind.ChildColumn+" = ?", child)
	if kind.CrossReferencing {
		q = q.Order(ReferenceOrderColumn)
	} else {
		for _, col := range kind.OwnerColumns {
			q = q.Order(col.Name)
		}
	}

	var rows []map[string]any
	err := q.Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeAll(kind, rows), nil
}

// loadRow returns the row for (owner, child) or nil when it does not exist. The row is
// read with a lock.
func loadRow(tx *gorm.DB, kind *Kind, owner Key, child string) (*Record, error) {
	var rows []map[string]any
	err := forUpdate(tx).Table(kind.Table).
		Select(kind.Columns()).
		Where(kind.rowWhere(owner, child)).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := kind.decode(rows[0])
	return &rec, nil
}

// maxReferenceOrder returns the highest ReferenceOrder of a child, or -1 for an empty
// group. The read locks the scanned index range, so a concurrent append waits.
func maxReferenceOrder(tx *gorm.DB, kind *Kind, child string) (int, error) {
	var max sql.NullInt64
	row := forUpdate(tx).Table(kind.Table).
		Select("MAX("+ReferenceOrderColumn+")").
		Where(kind.ChildColumn+" = ?", child).
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

func insertRow(tx *gorm.DB, kind *Kind, owner Key, link Link, referenceOrder *int) error {
	values := kind.rowWhere(owner, link.Child)
	values[OrderColumn] = link.Order
	if kind.Named {
		values[NameColumn] = link.Name
		values[DescriptionColumn] = link.Description
	}
	if kind.CrossReferencing && referenceOrder != nil {
		values[ReferenceOrderColumn] = *referenceOrder
	}
	return tx.Table(kind.Table).Create(values).Error
}

func updateMetadata(tx *gorm.DB, kind *Kind, owner Key, link Link) error {
	return tx.Table(kind.Table).
		Where(kind.rowWhere(owner, link.Child)).
		Updates(map[string]any{
			NameColumn:        link.Name,
			DescriptionColumn: link.Description,
		}).Error
}

func deleteRows(tx *gorm.DB, kind *Kind, owner Key, children []string) (int, error) {
	if len(children) == 0 {
		return 0, nil
	}
	result := tx.Table(kind.Table).
		Where(kind.ownerWhere(owner)).
		Where(kind.ChildColumn+" IN ?", children).
		Delete(nil)
	return int(result.RowsAffected), result.Error
}

// loadOwnerPrefixRows returns the rows whose owner key starts with prefix.
func loadOwnerPrefixRows(tx *gorm.DB, kind *Kind, prefix Key) ([]Record, error) {
	where := make(map[string]any, len(prefix))
	for i, v := range prefix {
		where[kind.OwnerColumns[i].Name] = v
	}

	var rows []map[string]any
	err := tx.Table(kind.Table).
		Select(kind.Columns()).
		Where(where).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeAll(kind, rows), nil
}

func decodeAll(kind *Kind, rows []map[string]any) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, kind.decode(row))
	}
	return out
}

// positionWrite moves one row to a new position.
type positionWrite struct {
	owner Key
	child string
	from  *int
	to    int
}

// writePositions applies moves within one column. Moves that could collide with a
// position still held by another row are parked at negative values first, so the
// unique (group, position) index holds after every statement.
func writePositions(tx *gorm.DB, kind *Kind, column string, writes []positionWrite) error {
	if len(writes) == 0 {
		return nil
	}

	sort.SliceStable(writes, func(i, j int) bool {
		return writes[i].to < writes[j].to
	})

	park := len(writes) > 1 && !allDecreasing(writes)
	if park {
		for i, w := range writes {
			if err := setPosition(tx, kind, column, w.owner, w.child, -(i + 1)); err != nil {
				return fmt.Errorf("park %s: %w", column, err)
			}
		}
	}

	for _, w := range writes {
		if err := setPosition(tx, kind, column, w.owner, w.child, w.to); err != nil {
			return fmt.Errorf("set %s: %w", column, err)
		}
	}
	return nil
}

// allDecreasing reports whether, applied in ascending target order, no move can land on
// a position another pending move still occupies.
func allDecreasing(writes []positionWrite) bool {
	for _, w := range writes {
		if w.from == nil || w.to > *w.from || *w.from < 0 {
			return false
		}
	}
	return true
}

func setPosition(tx *gorm.DB, kind *Kind, column string, owner Key, child string, value int) error {
	return tx.Table(kind.Table).
		Where(kind.rowWhere(owner, child)).
		Update(column, value).Error
}
