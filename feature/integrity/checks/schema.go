package checks

import (
	"fmt"

	"media-catalog/core/database"
	"media-catalog/core/reconcile"

	"gorm.io/gorm"
)

// SchemaReport is the result of a schema check over every association table.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport describes one association table.
type TableReport struct {
	Kind           string   `json:"kind"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// CheckSchema verifies that each kind's table exposes the columns the engine reads and
// writes. A failed inspection is reported per table rather than aborting the check.
func CheckSchema(db *gorm.DB, kinds []*reconcile.Kind) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport, len(kinds)),
		Errors:  []string{},
	}

	for _, kind := range kinds {
		tbl := TableReport{Kind: kind.Name, MissingColumns: []string{}, Status: "ok"}

		expected := kind.Columns()
		missing, err := database.MissingColumns(db, kind.Table, expected)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", kind.Table, err))
			report.Matched = false
			tbl.Status = "error"
			report.Tables[kind.Table] = tbl
			continue
		}

		switch {
		case len(missing) == len(expected):
			tbl.MissingColumns = missing
			tbl.Status = "missing"
			report.Matched = false
		case len(missing) > 0:
			tbl.MissingColumns = missing
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[kind.Table] = tbl
	}

	return report, nil
}
