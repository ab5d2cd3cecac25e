package reconcile

import (
	"fmt"

	"media-catalog/core/utils"
)

// Column names shared by every association table.
const (
	OrderColumn          = "order_index"
	ReferenceOrderColumn = "reference_order"
	NameColumn           = "name"
	DescriptionColumn    = "description"
)

// Column describes one owner key column of an association table.
type Column struct {
	// Name is the column name in the association table.
	Name string
	// Numeric marks integer columns (e.g. media or track numbers).
	Numeric bool
}

// Kind describes one association table. The engine is parameterized by it instead of
// duplicating the reconciliation per table.
type Kind struct {
	// Name is the unique name of the kind, used in APIs and logs.
	Name string

	// Table is the association table name.
	Table string

	// OwnerEntity names the owning entity reported in OwnerTouched events (e.g. "release").
	OwnerEntity string

	// OwnerColumns are the columns referencing the owner, in key order.
	OwnerColumns []Column

	// ChildColumn is the column referencing the child entity.
	ChildColumn string

	// ChildTable is the table of the child entity. Required for cross-referencing kinds,
	// whose child rows are locked to serialize ReferenceOrder changes.
	ChildTable string

	// ChildKeyColumn is the primary key column of ChildTable. Defaults to "id".
	ChildKeyColumn string

	// Named marks kinds carrying Name and Description columns.
	Named bool

	// CrossReferencing marks kinds carrying a ReferenceOrder column.
	CrossReferencing bool

	// Model is the gorm model of the table, used for schema bootstrap.
	Model any
}

// Validate checks that the descriptor is complete.
func (k *Kind) Validate() error {
	switch {
	case k.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidKind)
	case k.Table == "":
		return fmt.Errorf("%w: %s has no table", ErrInvalidKind, k.Name)
	case len(k.OwnerColumns) == 0:
		return fmt.Errorf("%w: %s has no owner columns", ErrInvalidKind, k.Name)
	case k.ChildColumn == "":
		return fmt.Errorf("%w: %s has no child column", ErrInvalidKind, k.Name)
	case k.CrossReferencing && k.ChildTable == "":
		return fmt.Errorf("%w: %s is cross-referencing but has no child table", ErrInvalidKind, k.Name)
	}
	return nil
}

// Columns returns the association columns the engine reads and writes.
func (k *Kind) Columns() []string {
	cols := make([]string, 0, len(k.OwnerColumns)+5)
	for _, c := range k.OwnerColumns {
		cols = append(cols, c.Name)
	}
	cols = append(cols, k.ChildColumn, OrderColumn)
	if k.Named {
		cols = append(cols, NameColumn, DescriptionColumn)
	}
	if k.CrossReferencing {
		cols = append(cols, ReferenceOrderColumn)
	}
	return cols
}

// NormalizeKey checks the key shape and coerces each component to its column type.
func (k *Kind) NormalizeKey(key Key) (Key, error) {
	if len(key) != len(k.OwnerColumns) {
		return nil, fmt.Errorf("%w: %s expects %d components, got %d", ErrKeyShape, k.Name, len(k.OwnerColumns), len(key))
	}
	return k.normalizePrefix(key), nil
}

// normalizePrefix coerces the leading components of an owner key. The caller checks
// that key is not longer than OwnerColumns.
func (k *Kind) normalizePrefix(key Key) Key {
	out := make(Key, len(key))
	for i := range key {
		if k.OwnerColumns[i].Numeric {
			out[i] = utils.ToInt(key[i])
		} else {
			out[i] = utils.ToString(key[i])
		}
	}
	return out
}

func (k *Kind) childKey() string {
	if k.ChildKeyColumn == "" {
		return "id"
	}
	return k.ChildKeyColumn
}

func (k *Kind) ownerWhere(owner Key) map[string]any {
	where := make(map[string]any, len(k.OwnerColumns))
	for i, col := range k.OwnerColumns {
		where[col.Name] = owner[i]
	}
	return where
}

func (k *Kind) rowWhere(owner Key, child string) map[string]any {
	where := k.ownerWhere(owner)
	where[k.ChildColumn] = child
	return where
}

func (k *Kind) positionColumn(scope Scope) string {
	if scope == ScopeChild {
		return ReferenceOrderColumn
	}
	return OrderColumn
}

// decode converts a scanned row into a Record.
func (k *Kind) decode(row map[string]any) Record {
	owner := make(Key, len(k.OwnerColumns))
	for i, col := range k.OwnerColumns {
		if col.Numeric {
			owner[i] = utils.ToInt(row[col.Name])
		} else {
			owner[i] = utils.ToString(row[col.Name])
		}
	}

	rec := Record{
		Owner: owner,
		Child: utils.ToString(row[k.ChildColumn]),
		Order: utils.ToInt(row[OrderColumn]),
	}
	if k.Named {
		rec.Name = utils.ToStringPtr(row[NameColumn])
		rec.Description = utils.ToStringPtr(row[DescriptionColumn])
	}
	if k.CrossReferencing {
		rec.ReferenceOrder = utils.ToIntPtr(row[ReferenceOrderColumn])
	}
	return rec
}

// Registry holds the association kinds known to an application.
type Registry struct {
	byName map[string]*Kind
	kinds  []*Kind
}

// NewRegistry validates and registers the given kinds.
func NewRegistry(kinds ...*Kind) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Kind, len(kinds))}
	for _, k := range kinds {
		if err := k.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[k.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate kind %s", ErrInvalidKind, k.Name)
		}
		r.byName[k.Name] = k
		r.kinds = append(r.kinds, k)
	}
	return r, nil
}

// Get returns the kind registered under name.
func (r *Registry) Get(name string) (*Kind, error) {
	k, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	return k, nil
}

// All returns the registered kinds in registration order.
func (r *Registry) All() []*Kind {
	out := make([]*Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}
