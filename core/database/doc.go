// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL (production) or SQLite (tests, local runs) connections
// from the application configuration. Constraint violations are translated into
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live column set of a table. The
// integrity feature uses them to verify that every association table carries the
// position columns the reconciliation engine writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "release_to_products", []string{"order_index", "reference_order"})
package database
