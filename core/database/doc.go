// Package database handles database connections for the event catalog.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration. A sqlite driver is also supported
// so tests can run against an in-memory database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
