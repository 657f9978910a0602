package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Open registers the distance functions and opens a SQLite database using
// the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./points.sqlite". For in-memory
// databases, pass MemoryDSN; the pool is then limited to one connection since
// every connection would otherwise see its own empty database.
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterDistanceFunctions(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == MemoryDSN {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
