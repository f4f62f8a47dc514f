// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures a PostgreSQL (default), MySQL or SQLite
// connection from the application configuration. SQLite is used by the tests
// and for local runs against a file.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let callers verify that the catalog
// table carries the columns the sync writes before any mutation is issued.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
//
//	missing, err := database.MissingColumns(db, "layouts", []string{"uuid", "pieces"})
package database
