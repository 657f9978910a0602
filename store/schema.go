package store

import (
	"context"
	"database/sql"
)

// PointsTable holds the placed objects of a SQLiteStore.
const PointsTable = "bluenoise_points"

const pointsSchema = `
CREATE TABLE IF NOT EXISTS bluenoise_points (
    id       INTEGER PRIMARY KEY,
    x        REAL NOT NULL,
    y        REAL NOT NULL,
    z        REAL NOT NULL,
    position BLOB NOT NULL
);
`

// EnsureSchema creates the points table in the provided database if it does
// not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, pointsSchema)
	return err
}
