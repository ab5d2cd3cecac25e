package checks

import (
	"context"
	"fmt"
	"strings"

	"media-catalog/core/reconcile"
	"media-catalog/core/utils"

	"gorm.io/gorm"
)

// Gap is a position group that is not the dense sequence 0..Count-1.
type Gap struct {
	Kind  string        `json:"kind"`
	Scope string        `json:"scope"`
	Group reconcile.Key `json:"group"`
	Count int           `json:"count"`
	Min   int           `json:"min"`
	Max   int           `json:"max"`
}

// OrderReport lists the gaps found in one association kind.
type OrderReport struct {
	Kind      string `json:"kind"`
	Status    string `json:"status"` // "ok", "error"
	OwnerGaps []Gap  `json:"owner_gaps"`
	ChildGaps []Gap  `json:"child_gaps"`
}

// Gaps returns the owner and child gaps together.
func (r *OrderReport) Gaps() []Gap {
	out := make([]Gap, 0, len(r.OwnerGaps)+len(r.ChildGaps))
	out = append(out, r.OwnerGaps...)
	return append(out, r.ChildGaps...)
}

// CheckOrders scans one kind for owners whose Order values, and children whose
// ReferenceOrder values, are not dense. Positions are unique per group, so a group is
// dense exactly when its minimum is 0 and its maximum is count-1.
func CheckOrders(ctx context.Context, db *gorm.DB, kind *reconcile.Kind) (*OrderReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &OrderReport{
		Kind:      kind.Name,
		Status:    "ok",
		OwnerGaps: []Gap{},
		ChildGaps: []Gap{},
	}

	owners := make([]string, 0, len(kind.OwnerColumns))
	for _, col := range kind.OwnerColumns {
		owners = append(owners, col.Name)
	}

	rows, err := scanGaps(ctx, db, kind.Table, owners, reconcile.OrderColumn)
	if err != nil {
		return nil, fmt.Errorf("check %s owner orders: %w", kind.Name, err)
	}
	for _, row := range rows {
		key := make(reconcile.Key, len(kind.OwnerColumns))
		for i, col := range kind.OwnerColumns {
			if col.Numeric {
				key[i] = utils.ToInt(row[col.Name])
			} else {
				key[i] = utils.ToString(row[col.Name])
			}
		}
		report.OwnerGaps = append(report.OwnerGaps, newGap(kind, reconcile.ScopeOwner, key, row))
	}

	if kind.CrossReferencing {
		rows, err := scanGaps(ctx, db, kind.Table, []string{kind.ChildColumn}, reconcile.ReferenceOrderColumn)
		if err != nil {
			return nil, fmt.Errorf("check %s reference orders: %w", kind.Name, err)
		}
		for _, row := range rows {
			key := reconcile.Key{utils.ToString(row[kind.ChildColumn])}
			report.ChildGaps = append(report.ChildGaps, newGap(kind, reconcile.ScopeChild, key, row))
		}
	}

	if len(report.OwnerGaps) > 0 || len(report.ChildGaps) > 0 {
		report.Status = "error"
	}
	return report, nil
}

func scanGaps(ctx context.Context, db *gorm.DB, table string, groupBy []string, column string) ([]map[string]any, error) {
	cols := strings.Join(groupBy, ", ")
	var rows []map[string]any
	err := db.WithContext(ctx).
		Table(table).
		Select(fmt.Sprintf("%s, COUNT(*) AS n, MIN(%s) AS lo, MAX(%s) AS hi", cols, column, column)).
		Group(cols).
		Having(fmt.Sprintf("MIN(%s) <> 0 OR MAX(%s) <> COUNT(*) - 1", column, column)).
		Order(cols).
		Find(&rows).Error
	return rows, err
}

func newGap(kind *reconcile.Kind, scope reconcile.Scope, key reconcile.Key, row map[string]any) Gap {
	return Gap{
		Kind:  kind.Name,
		Scope: scope.String(),
		Group: key,
		Count: utils.ToInt(row["n"]),
		Min:   utils.ToInt(row["lo"]),
		Max:   utils.ToInt(row["hi"]),
	}
}
